package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/offtimer/offtimer-go/pkg/history"
	"github.com/offtimer/offtimer-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents  int
	EventsByKind map[log.Kind]int
	Cycles       map[string]*CycleStats
	TimeRange    struct {
		Start time.Time
		End   time.Time
	}
}

// CycleStats holds statistics for a single armed period.
type CycleStats struct {
	Intent   string
	ArmedAt  time.Time
	EndedAt  time.Time
	Ticks    int
	Outcome  log.Kind
	Finished bool
}

// Outcomes counts cycles per outcome, using the history vocabulary.
func (s *Stats) Outcomes() map[history.Outcome]int {
	out := make(map[history.Outcome]int)
	for _, c := range s.Cycles {
		switch {
		case !c.Finished:
			out[history.OutcomePending]++
		case c.Outcome == log.KindComplete:
			out[history.OutcomeCompleted]++
		case c.Outcome == log.KindCancel:
			out[history.OutcomeCancelled]++
		case c.Outcome == log.KindFail:
			out[history.OutcomeFailed]++
		}
	}
	return out
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := collectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func collectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByKind: make(map[log.Kind]int),
		Cycles:       make(map[string]*CycleStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByKind[event.Kind]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Rejected arms have no cycle.
		if event.CycleID == "" {
			continue
		}
		cycle, ok := stats.Cycles[event.CycleID]
		if !ok {
			cycle = &CycleStats{ArmedAt: event.Timestamp}
			stats.Cycles[event.CycleID] = cycle
		}
		switch {
		case event.Kind == log.KindArm:
			cycle.ArmedAt = event.Timestamp
			if event.Intent != nil {
				cycle.Intent = describeIntent(event.Intent)
			}
		case event.Kind == log.KindTick:
			cycle.Ticks++
		case event.Kind.Terminal():
			cycle.Outcome = event.Kind
			cycle.Finished = true
			cycle.EndedAt = event.Timestamp
		}
	}

	return stats, nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== offtimer Event Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration: %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
	}
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Kind:")
	for k := log.KindArm; k <= log.KindFail; k++ {
		if n := stats.EventsByKind[k]; n > 0 {
			fmt.Fprintf(w, "  %-9s %d\n", k.String()+":", n)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Cycles: %d\n", len(stats.Cycles))
	outcomes := stats.Outcomes()
	for _, o := range []history.Outcome{history.OutcomeCompleted, history.OutcomeCancelled, history.OutcomeFailed, history.OutcomePending} {
		if n := outcomes[o]; n > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", string(o)+":", n)
		}
	}
}
