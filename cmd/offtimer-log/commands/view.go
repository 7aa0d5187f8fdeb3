// Package commands implements the offtimer-log CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/offtimer/offtimer-go/pkg/log"
)

// timestampLayout is the UTC layout used for event timestamps.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// ErrUnknownKind is returned when a --kind value does not name an event kind.
var ErrUnknownKind = errors.New("unknown event kind")

// NewFilter builds a log filter from command-line values. Empty values
// match everything; kind is case-insensitive.
func NewFilter(cycleID, kind string) (log.Filter, error) {
	f := log.Filter{CycleID: cycleID}
	if kind != "" {
		k, ok := log.ParseKind(strings.ToUpper(kind))
		if !ok {
			return log.Filter{}, fmt.Errorf("%w: %s (supported: arm, reject, tick, cancel, complete, fail)", ErrUnknownKind, kind)
		}
		f.Kind = &k
	}
	return f, nil
}

// RunView prints the events of the log file that match filter.
func RunView(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [cycle:id] KIND
	ts := event.Timestamp.UTC().Format(timestampLayout)
	cycle := shortenCycleID(event.CycleID)
	if cycle == "" {
		cycle = "-"
	}
	fmt.Fprintf(w, "%s [cycle:%s] %s\n", ts, cycle, event.Kind)

	if event.Intent != nil {
		fmt.Fprintf(w, "  Intent: %s\n", describeIntent(event.Intent))
	}
	if event.Deadline != nil {
		fmt.Fprintf(w, "  Deadline: %s\n", event.Deadline.UTC().Format(timestampLayout))
	}
	if event.Remaining != nil {
		fmt.Fprintf(w, "  Remaining: %ds\n", *event.Remaining)
	}
	if sc := event.StateChange; sc != nil {
		if sc.OldState != "" {
			fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
		} else {
			fmt.Fprintf(w, "  -> %s\n", sc.NewState)
		}
		if sc.Reason != "" {
			fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
		}
	}
	if e := event.Error; e != nil {
		if e.Context != "" {
			fmt.Fprintf(w, "  Context: %s\n", e.Context)
		}
		fmt.Fprintf(w, "  Error: %s\n", e.Message)
	}

	fmt.Fprintln(w)
}

// shortenCycleID returns the first 8 characters of the cycle ID.
func shortenCycleID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func describeIntent(in *log.IntentData) string {
	switch in.Mode {
	case "timer":
		return fmt.Sprintf("timer %d min", in.Minutes)
	case "scheduled":
		return fmt.Sprintf("at %02d:%02d", in.Hour, in.Minute)
	default:
		return in.Mode
	}
}
