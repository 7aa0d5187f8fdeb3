package commands

import (
	"fmt"
	"io"

	"github.com/offtimer/offtimer-go/pkg/history"
)

// RunHistory prints the most recent cycles of a history database followed
// by the outcome totals.
func RunHistory(dbPath string, limit int, w io.Writer) error {
	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	cycles, err := store.List(limit)
	if err != nil {
		return fmt.Errorf("failed to list cycles: %w", err)
	}
	counts, err := store.Counts()
	if err != nil {
		return fmt.Errorf("failed to count cycles: %w", err)
	}

	for _, c := range cycles {
		fmt.Fprintf(w, "%s [cycle:%s] %s\n",
			c.ArmedAt.UTC().Format(timestampLayout), shortenCycleID(c.ID), c.Outcome)
		fmt.Fprintf(w, "  Intent: %s\n", c.Intent)
		fmt.Fprintf(w, "  Deadline: %s\n", c.Deadline.UTC().Format(timestampLayout))
		if c.EndedAt != nil {
			fmt.Fprintf(w, "  Ended: %s\n", c.EndedAt.UTC().Format(timestampLayout))
		}
		if c.Reason != "" {
			fmt.Fprintf(w, "  Reason: %s\n", c.Reason)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Totals: %d completed, %d cancelled, %d failed, %d pending\n",
		counts[history.OutcomeCompleted], counts[history.OutcomeCancelled],
		counts[history.OutcomeFailed], counts[history.OutcomePending])
	return nil
}
