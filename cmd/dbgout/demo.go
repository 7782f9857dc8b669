package main

import (
	"fmt"

	"github.com/abyssdigger/dbgout"
	"github.com/abyssdigger/dbgout/internal/script"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Emit a message at every severity through reporters and groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ctx, err := cfg.NewContext(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer ctx.Free()
		out := cmd.OutOrStdout()
		ctx.SetInteger(dbgout.DEBUG_OUTPUT, 1)
		ctx.DebugMessageCallback(func(source dbgout.Source, msgType dbgout.MsgType, id uint32, severity dbgout.Severity, text string, _ any) {
			fmt.Fprintln(out, script.FormatMessage(source, msgType, id, severity, text))
		}, nil)
		ctx.DebugMessageControl(dbgout.SOURCE_DONT_CARE, dbgout.TYPE_DONT_CARE, dbgout.SEVERITY_DONT_CARE, nil, true)

		rep := ctx.NewReporter(dbgout.SOURCE_WINDOW_SYSTEM, dbgout.TYPE_OTHER)
		ctx.PushDebugGroup(dbgout.SOURCE_APPLICATION, 1, -1, "demo")
		for sev := dbgout.SEVERITY_LOW; sev <= dbgout.SEVERITY_NOTIFICATION; sev++ {
			fmt.Fprintf(rep.Sev(sev), "<test> %v", sev)
		}
		ctx.DebugMessageControl(dbgout.SOURCE_WINDOW_SYSTEM, dbgout.TYPE_DONT_CARE, dbgout.SEVERITY_DONT_CARE, nil, false)
		rep.High("muted inside the group")
		ctx.PopDebugGroup()
		rep.High("heard again after pop")
		ctx.DebugMessageInsert(dbgout.SOURCE_APPLICATION, dbgout.TYPE_MARKER, 2, dbgout.SEVERITY_NOTIFICATION, -1, "done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
