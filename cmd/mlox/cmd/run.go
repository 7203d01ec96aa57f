package cmd

import (
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Evaluate a script file",
		Long: `Evaluate the expression in a script file and print its value.

Exit codes: 65 for lexical or syntax errors, 70 for runtime errors,
66 when the file cannot be read.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFile(cmd.Context(), args[0])
		},
	}
}
