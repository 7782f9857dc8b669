package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/abyssdigger/dbgout"
	"github.com/spf13/cobra"
)

var enumsCmd = &cobra.Command{
	Use:   "enums",
	Short: "List the names accepted in configs and scripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		printNames(out, "source", dbgout.SourceNames[:], true)
		printNames(out, "type", dbgout.TypeNames[:], true)
		printNames(out, "severity", dbgout.SeverityNames[:], true)
		printNames(out, "param", dbgout.ParamNames[:], false)
		printNames(out, "error", dbgout.ErrorCodeNames[:], false)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enumsCmd)
}

func printNames(w io.Writer, axis string, names []string, dontCare bool) {
	if dontCare {
		names = append(names[:len(names):len(names)], dbgout.DONT_CARE_NAME)
	}
	fmt.Fprintf(w, "%-9s %s\n", axis+":", strings.Join(names, ", "))
}
