package main

import (
	"fmt"

	"github.com/abyssdigger/dbgout/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective dbgout configuration",
	Long: `This command prints the configuration that "run" would use, with every
state setting resolved to its effective value. It helps debug config files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(config.Encode(cfg))
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
