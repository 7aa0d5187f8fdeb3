package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Ticks are logged at Debug level,
// everything else at Info (Warn for rejects and failures).
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("kind", event.Kind.String()),
	}
	if event.CycleID != "" {
		attrs = append(attrs, slog.String("cycle_id", event.CycleID))
	}
	if event.Deadline != nil {
		attrs = append(attrs, slog.Time("deadline", *event.Deadline))
	}
	if event.Remaining != nil {
		attrs = append(attrs, slog.Uint64("remaining", uint64(*event.Remaining)))
	}

	switch {
	case event.Intent != nil:
		attrs = append(attrs, slog.String("mode", event.Intent.Mode))
		if event.Intent.Mode == "timer" {
			attrs = append(attrs, slog.Int("minutes", event.Intent.Minutes))
		} else {
			attrs = append(attrs,
				slog.Int("hour", event.Intent.Hour),
				slog.Int("minute", event.Intent.Minute),
			)
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	}
	if event.Error != nil {
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	level := slog.LevelInfo
	switch event.Kind {
	case KindTick:
		level = slog.LevelDebug
	case KindReject, KindFail:
		level = slog.LevelWarn
	}

	a.logger.LogAttrs(context.Background(), level, "scheduler", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
