package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/mlox/foundation/utils/stringx"
	"github.com/msto63/mlox/internal/history"
)

// listingWidth caps one history line in listings
const listingWidth = 120

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit     int
		clearAll  bool
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the prompt history",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if clearAll {
				n, err := store.Clear(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Removed %d entries\n", n)
				return nil
			}

			var entries []*history.Entry
			if sessionID != "" {
				entries, err = store.BySession(ctx, sessionID)
			} else {
				entries, err = store.Recent(ctx, limit)
			}
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(a.out, "No history")
				return nil
			}
			for _, entry := range entries {
				fmt.Fprintln(a.out, stringx.Truncate(stringx.OneLine(entry.String()), listingWidth, "..."))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries, 0 for all")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "remove all entries")
	cmd.Flags().StringVar(&sessionID, "session", "", "only entries of one session")
	return cmd
}
