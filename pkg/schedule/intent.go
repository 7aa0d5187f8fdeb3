package schedule

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MaxMinutes is the largest timer delay that fits in a time.Duration.
const MaxMinutes = int(math.MaxInt64 / int64(time.Minute))

// Mode selects how an Intent expresses its deadline.
type Mode uint8

const (
	// ModeTimer powers off a relative number of minutes from now.
	ModeTimer Mode = iota + 1

	// ModeScheduled powers off at an absolute clock time.
	ModeScheduled
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeTimer:
		return "timer"
	case ModeScheduled:
		return "scheduled"
	default:
		return "unknown"
	}
}

// ClockTime is an hour and minute of the day.
type ClockTime struct {
	Hour   int
	Minute int
}

// String formats the clock time as HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClockTime parses "H:MM" or "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return ClockTime{}, &IntentError{Field: "at", Value: s, Reason: "expected HH:MM"}
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return ClockTime{}, &IntentError{Field: "hour", Value: hs, Reason: "not a number"}
	}
	m, err := strconv.Atoi(ms)
	if err != nil || len(ms) != 2 {
		return ClockTime{}, &IntentError{Field: "minute", Value: ms, Reason: "expected two digits"}
	}
	c := ClockTime{Hour: h, Minute: m}
	return c, c.validate()
}

func (c ClockTime) validate() error {
	if c.Hour < 0 || c.Hour > 23 {
		return &IntentError{Field: "hour", Value: c.Hour, Reason: "must be 0-23"}
	}
	if c.Minute < 0 || c.Minute > 59 {
		return &IntentError{Field: "minute", Value: c.Minute, Reason: "must be 0-59"}
	}
	return nil
}

// Intent is a user request to power off.
type Intent struct {
	// Mode selects which of the fields below is used.
	Mode Mode

	// Minutes is the delay in timer mode. Must be positive.
	Minutes int

	// At is the target clock time in scheduled mode.
	At ClockTime
}

// TimerIntent returns an intent to power off in minutes.
func TimerIntent(minutes int) Intent {
	return Intent{Mode: ModeTimer, Minutes: minutes}
}

// ScheduledIntent returns an intent to power off at hour:minute.
func ScheduledIntent(hour, minute int) Intent {
	return Intent{Mode: ModeScheduled, At: ClockTime{Hour: hour, Minute: minute}}
}

// String describes the intent for logs and prompts.
func (i Intent) String() string {
	switch i.Mode {
	case ModeTimer:
		return fmt.Sprintf("timer %d min", i.Minutes)
	case ModeScheduled:
		return "at " + i.At.String()
	default:
		return "unknown intent"
	}
}

// Validate checks the fields relevant to the intent's mode.
func (i Intent) Validate() error {
	switch i.Mode {
	case ModeTimer:
		if i.Minutes <= 0 {
			return &IntentError{Field: "minutes", Value: i.Minutes, Reason: "must be positive"}
		}
		if i.Minutes > MaxMinutes {
			return &IntentError{Field: "minutes", Value: i.Minutes, Reason: "too large"}
		}
		return nil
	case ModeScheduled:
		return i.At.validate()
	default:
		return &IntentError{Field: "mode", Value: uint8(i.Mode), Reason: "unknown mode"}
	}
}

// Deadline resolves the intent against now.
//
// Timer mode adds Minutes to now. Scheduled mode picks today's At in now's
// location, rolling to tomorrow when that is not strictly after now. The
// result is expressed as now plus a duration so it keeps now's monotonic
// clock reading.
func (i Intent) Deadline(now time.Time) (time.Time, error) {
	if err := i.Validate(); err != nil {
		return time.Time{}, err
	}

	if i.Mode == ModeTimer {
		return now.Add(time.Duration(i.Minutes) * time.Minute), nil
	}

	y, mo, d := now.Date()
	target := time.Date(y, mo, d, i.At.Hour, i.At.Minute, 0, 0, now.Location())
	if !target.After(now) {
		target = time.Date(y, mo, d+1, i.At.Hour, i.At.Minute, 0, 0, now.Location())
	}
	return now.Add(target.Sub(now)), nil
}
