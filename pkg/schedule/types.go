package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Scheduler errors.
var (
	ErrInvalidIntent = errors.New("invalid shutdown intent")
	ErrAlreadyArmed  = errors.New("shutdown already armed")
	ErrClosed        = errors.New("scheduler closed")
)

// IntentError describes why an Intent was rejected.
// It matches ErrInvalidIntent with errors.Is.
type IntentError struct {
	Field  string
	Value  any
	Reason string
}

func (e *IntentError) Error() string {
	return fmt.Sprintf("%s: %s %v %s", ErrInvalidIntent, e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidIntent.
func (e *IntentError) Unwrap() error {
	return ErrInvalidIntent
}

// State represents the scheduler state.
type State uint8

const (
	// StateIdle indicates no action is pending.
	StateIdle State = iota

	// StateArmed indicates a countdown is running.
	StateArmed

	// StateFiring indicates the power-off action is in flight.
	StateFiring
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateArmed:
		return "ARMED"
	case StateFiring:
		return "FIRING"
	default:
		return "UNKNOWN"
	}
}

// EventType identifies an observer event.
type EventType uint8

const (
	// EventTick carries the remaining seconds.
	EventTick EventType = iota

	// EventCompleted - power-off action succeeded.
	EventCompleted

	// EventCancelled - cycle cancelled before firing.
	EventCancelled

	// EventFailed - power-off action returned an error.
	EventFailed
)

// String returns the event type name.
func (e EventType) String() string {
	switch e {
	case EventTick:
		return "TICK"
	case EventCompleted:
		return "COMPLETED"
	case EventCancelled:
		return "CANCELLED"
	case EventFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the event ends its cycle.
func (e EventType) Terminal() bool {
	return e != EventTick
}

// Event is delivered to the observer.
type Event struct {
	// Type is the event type.
	Type EventType

	// CycleID identifies the armed period.
	CycleID string

	// Deadline is the cycle's power-off time.
	Deadline time.Time

	// Remaining is the whole seconds left (EventTick only).
	Remaining uint32

	// Err is the power-off failure (EventFailed only).
	Err error
}

// EventHandler receives scheduler events. It is called from the tick loop
// goroutine, never while the scheduler lock is held, so it may call Cancel
// or Status. It must not call Close.
type EventHandler func(Event)

// Status is a snapshot of the scheduler.
type Status struct {
	State     State
	CycleID   string
	Intent    Intent
	ArmedAt   time.Time
	Deadline  time.Time
	Remaining uint32
}

// Active reports whether a power-off is pending or in flight.
func (s Status) Active() bool {
	return s.State != StateIdle
}
