package log

// Logger receives the scheduler's event trace. Log is called from the
// cycle's tick loop, so a slow Logger delays the countdown; it may be
// called concurrently by an Arm rejection on another goroutine.
type Logger interface {
	Log(event Event)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(Event)

// Log calls f.
func (f LoggerFunc) Log(event Event) { f(event) }

// NoopLogger discards events.
type NoopLogger struct{}

func (NoopLogger) Log(Event) {}

var (
	_ Logger = NoopLogger{}
	_ Logger = LoggerFunc(nil)
)
