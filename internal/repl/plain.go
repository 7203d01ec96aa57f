// ============================================================================
// mlox - Lox expression engine
// ============================================================================
//
// Package:     repl
// Description: Line-based prompt for non-terminal input
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/msto63/mlox/internal/session"
)

// RunPlain reads lines from in until EOF or until ctx is done. Each line
// goes through the session, which writes values and errors itself; the
// prompt is written to out. Errors on one line never end the loop.
func RunPlain(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer, prompt string) error {
	if prompt == "" {
		prompt = DefaultConfig().Prompt
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, prompt)

		if !scanner.Scan() {
			// end of input leaves the cursor after the prompt
			fmt.Fprintln(out)
			return scanner.Err()
		}

		sess.RunLine(ctx, scanner.Text())
		sess.Reset()
	}
}
