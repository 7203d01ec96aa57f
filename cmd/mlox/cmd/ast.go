package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/msto63/mlox/foundation/lox/ast"
	"github.com/msto63/mlox/internal/session"
)

func newASTCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "ast <expression>...",
		Short: "Print the syntax tree of an expression",
		Long: `Parse an expression and print its syntax tree without evaluating it.

Formats:
  text  parenthesized prefix form, e.g. (* 2 (* 3 4))
  json  nested objects
  yaml  nested mappings`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "json", "yaml":
			default:
				return &usageError{
					err:   fmt.Errorf("unknown format %q (want text, json or yaml)", format),
					usage: cmd.UseLine(),
				}
			}

			engine, err := a.engine()
			if err != nil {
				return err
			}

			tree, err := engine.Parse(strings.Join(args, " "))
			if err != nil {
				fmt.Fprintln(a.errOut, err)
				return exitWith(session.ExitDataErr)
			}

			switch format {
			case "json":
				data, err := json.MarshalIndent(ast.ToMap(tree), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, string(data))
			case "yaml":
				data, err := yaml.Marshal(ast.ToMap(tree))
				if err != nil {
					return err
				}
				fmt.Fprint(a.out, string(data))
			default:
				fmt.Fprintln(a.out, ast.Print(tree))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}
