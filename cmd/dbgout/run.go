package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/abyssdigger/dbgout/internal/script"
	"github.com/spf13/cobra"
)

var (
	diagnosticsFlag bool
	fetchRestFlag   bool
)

func init() {
	runCmd.Flags().BoolVar(&diagnosticsFlag, "diagnostics", false, "Echo recorded API errors to stderr (overrides the config)")
	runCmd.Flags().BoolVar(&fetchRestFlag, "fetch-rest", false, "Print the messages left in the log after the last step")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [flags] script.yaml...",
	Short: "Replay scripts against a debug context",
	Long: `Replay one or more YAML scripts. Each script gets a fresh context built
from the configuration; delivered and fetched messages are printed as
"[SEVERITY] source/type #id: text".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		out := cmd.OutOrStdout()
		for _, path := range args {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			s, err := script.Load(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
			if err != nil {
				return fmt.Errorf("failed to load script %s: %w", path, err)
			}
			ctx, err := cfg.NewContext(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to apply config: %w", err)
			}
			if cmd.Flags().Changed("diagnostics") {
				ctx.SetDiagnostics(diagnosticsFlag)
			}
			name := s.Name
			if name == "" {
				name = filepath.Base(path)
			}
			fmt.Fprintf(out, "# %s (context %s)\n", name, ctx.ID())
			if err := script.Run(ctx, s, out); err != nil {
				ctx.Free()
				return fmt.Errorf("%s: %w", path, err)
			}
			if fetchRestFlag {
				msgs, err := ctx.GetDebugMessageLog(math.MaxInt, math.MaxInt)
				if err != nil {
					ctx.Free()
					return fmt.Errorf("%s: fetch rest: %w", path, err)
				}
				for _, m := range msgs {
					fmt.Fprintln(out, script.FormatMessage(m.Source, m.Type, m.ID, m.Severity, m.Text))
				}
			}
			ctx.Free()
		}
		return nil
	},
}
