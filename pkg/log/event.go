package log

import "time"

// Event represents one scheduler event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// CycleID identifies the armed period (UUID). Empty for rejected arms.
	CycleID string `cbor:"2,keyasint,omitempty"`

	// Kind classifies the event.
	Kind Kind `cbor:"3,keyasint"`

	// Deadline is the absolute power-off time of the cycle.
	Deadline *time.Time `cbor:"4,keyasint,omitempty"`

	// Remaining is the whole seconds left (tick events only).
	Remaining *uint32 `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (at most one of these is set).
	Intent      *IntentData       `cbor:"10,keyasint,omitempty"` // Arm and reject
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"` // Cancel and complete
	Error       *ErrorEventData   `cbor:"12,keyasint,omitempty"` // Reject and fail
}

// Kind classifies the event type.
type Kind uint8

const (
	// KindArm indicates a cycle was armed.
	KindArm Kind = 0
	// KindReject indicates an arm request was rejected.
	KindReject Kind = 1
	// KindTick indicates a countdown tick.
	KindTick Kind = 2
	// KindCancel indicates the cycle was cancelled before firing.
	KindCancel Kind = 3
	// KindComplete indicates the power-off action succeeded.
	KindComplete Kind = 4
	// KindFail indicates the power-off action failed.
	KindFail Kind = 5
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindArm:
		return "ARM"
	case KindReject:
		return "REJECT"
	case KindTick:
		return "TICK"
	case KindCancel:
		return "CANCEL"
	case KindComplete:
		return "COMPLETE"
	case KindFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// ParseKind returns the kind for a case-sensitive name produced by String.
func ParseKind(s string) (Kind, bool) {
	for k := KindArm; k <= KindFail; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Terminal reports whether the kind ends a cycle.
func (k Kind) Terminal() bool {
	return k == KindCancel || k == KindComplete || k == KindFail
}

// IntentData captures the user intent behind an arm request.
type IntentData struct {
	// Mode is "timer" or "scheduled".
	Mode string `cbor:"1,keyasint"`

	// Minutes is the relative delay (timer mode).
	Minutes int `cbor:"2,keyasint,omitempty"`

	// Hour and Minute are the target clock time (scheduled mode).
	Hour   int `cbor:"3,keyasint,omitempty"`
	Minute int `cbor:"4,keyasint,omitempty"`
}

// StateChangeEvent captures a scheduler state transition.
type StateChangeEvent struct {
	// OldState is the previous state.
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures a rejected request or a failed action.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
