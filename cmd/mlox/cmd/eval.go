package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

func newEvalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>...",
		Short: "Evaluate an expression given on the command line",
		Example: `  mlox eval "(1 + 2) * 3"
  mlox eval 2 * 3 * 4
  mlox eval -- -1 + 2`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(nil)
			if err != nil {
				return err
			}
			sess.RunSource(cmd.Context(), strings.Join(args, " "))
			return exitWith(sess.ExitCode())
		},
	}
}
