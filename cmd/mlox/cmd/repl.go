package cmd

import (
	"github.com/spf13/cobra"
)

func newREPLCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive prompt",
		Long: `Start the interactive prompt. Each line is evaluated on its own and
an error on one line does not end the session.

The full-screen prompt is used on a terminal; --plain or a redirected
input selects a line-oriented prompt.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL(cmd.Context(), plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "line-oriented prompt without full-screen UI")
	return cmd
}
