package main

import (
	"os"
	"path/filepath"

	"github.com/abyssdigger/dbgout/internal/config"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dbgout",
	Short: "dbgout drives debug contexts from replay scripts.",
	Long: `dbgout is a CLI for exploring debug message filtering: it builds a debug
context from an HCL configuration, replays YAML scripts of entry-point
calls against it and prints the messages that get through.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "HCL configuration file (default: library defaults)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the --config file, or returns the defaults when it is
// not set.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, err
	}
	return config.Load(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
}
