// Package schedule implements the shutdown scheduling engine.
//
// A Scheduler turns a user Intent into a single armed, cancellable power-off
// action and reports a live countdown to an observer.
//
// # Modes
//
// Timer mode powers off a number of minutes from now. Scheduled mode powers
// off at the next occurrence of a clock time: today if that moment is still
// ahead, otherwise the same clock time tomorrow. A target equal to the
// current instant counts as already passed.
//
// # Lifecycle
//
//	IDLE --Arm--> ARMED --deadline--> FIRING --action returns--> IDLE
//	                |
//	                +--Cancel--> IDLE
//
// Only one action may be armed at a time; Arm while ARMED fails with
// ErrAlreadyArmed. Cancel never fails and reports whether anything was armed.
//
// # Events
//
// While armed the observer receives one EventTick per second carrying the
// whole seconds remaining, recomputed from the deadline on every tick. The
// sequence is non-increasing and always ends with 0 before the action runs.
// Each cycle then ends with exactly one of EventCompleted, EventCancelled or
// EventFailed. All events of a cycle carry the same CycleID.
package schedule
