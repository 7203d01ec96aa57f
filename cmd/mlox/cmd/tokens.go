package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/mlox/internal/session"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <expression>...",
		Short: "Print the tokens of an expression",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}

			tokens, err := engine.Scan(strings.Join(args, " "))
			if err != nil {
				fmt.Fprintln(a.errOut, err)
				return exitWith(session.ExitDataErr)
			}

			for _, tok := range tokens {
				fmt.Fprintln(a.out, tok.String())
			}
			return nil
		},
	}
}
