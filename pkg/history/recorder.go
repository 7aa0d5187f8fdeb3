package history

import (
	"fmt"
	"log/slog"

	"github.com/offtimer/offtimer-go/pkg/log"
)

// Recorder feeds scheduler events into a Store.
type Recorder struct {
	store  *Store
	logger *slog.Logger
}

// NewRecorder creates a Recorder. Store errors are reported to logger
// (if non-nil) and otherwise dropped; history must not stall the countdown.
func NewRecorder(store *Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Log records arm and terminal events.
func (r *Recorder) Log(event log.Event) {
	var err error
	switch event.Kind {
	case log.KindArm:
		err = r.store.Start(cycleFromArm(event))
	case log.KindCancel:
		err = r.store.Finish(event.CycleID, OutcomeCancelled, reasonOf(event), event.Timestamp)
	case log.KindComplete:
		err = r.store.Finish(event.CycleID, OutcomeCompleted, reasonOf(event), event.Timestamp)
	case log.KindFail:
		err = r.store.Finish(event.CycleID, OutcomeFailed, reasonOf(event), event.Timestamp)
	default:
		return
	}

	if err != nil && r.logger != nil {
		r.logger.Warn("history: failed to record event",
			"kind", event.Kind.String(), "cycleID", event.CycleID, "error", err)
	}
}

func cycleFromArm(event log.Event) *Cycle {
	c := &Cycle{
		ID:      event.CycleID,
		ArmedAt: event.Timestamp,
	}
	if event.Deadline != nil {
		c.Deadline = *event.Deadline
	}
	if in := event.Intent; in != nil {
		c.Mode = in.Mode
		c.Intent = describeIntent(in)
	}
	return c
}

func describeIntent(in *log.IntentData) string {
	if in.Mode == "timer" {
		return fmt.Sprintf("timer %d min", in.Minutes)
	}
	return fmt.Sprintf("at %02d:%02d", in.Hour, in.Minute)
}

func reasonOf(event log.Event) string {
	if event.Error != nil {
		return event.Error.Message
	}
	if event.StateChange != nil {
		return event.StateChange.Reason
	}
	return ""
}

// Compile-time interface satisfaction check.
var _ log.Logger = (*Recorder)(nil)
