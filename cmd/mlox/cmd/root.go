package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/mlox/internal/session"
)

// usageError reports wrong command line usage (exit 64)
type usageError struct {
	err   error
	usage string
}

func (e *usageError) Error() string { return e.err.Error() }

// exitError carries an exit code whose message was already printed
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// exitWith turns a session exit code into an error for cobra
func exitWith(code int) error {
	if code == session.ExitOK {
		return nil
	}
	return &exitError{code: code}
}

// Execute runs the CLI with the process arguments and returns the exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	a := &app{in: in, out: out, errOut: errOut}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return session.ExitOK
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}

	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(errOut, "Error: %v\nUsage: %s\n", usage.err, usage.usage)
		return session.ExitUsage
	}

	fmt.Fprintf(errOut, "Error: %v\n", err)
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "mlox [script]",
		Short: "mlox - Lox expression engine",
		Long: `mlox scans, parses and evaluates Lox expressions.

Without arguments an interactive prompt starts. With one argument the
file is evaluated and the exit code reports the outcome:

  0   success
  64  usage error
  65  lexical or syntax error
  66  file cannot be read
  70  runtime error`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return &usageError{err: fmt.Errorf("accepts at most one script, received %d", len(args)), usage: "mlox [script]"}
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return a.runFile(cmd.Context(), args[0])
			}
			return a.runREPL(cmd.Context(), false)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $MLOX_CONFIG or ./configs/config.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err, usage: cmd.UseLine()}
	})

	root.AddCommand(
		newRunCmd(a),
		newREPLCmd(a),
		newEvalCmd(a),
		newTokensCmd(a),
		newASTCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
		newVersionCmd(a),
	)

	return root
}

// usageArgs wraps a cobra argument validator so violations exit with 64
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err, usage: cmd.UseLine()}
		}
		return nil
	}
}
