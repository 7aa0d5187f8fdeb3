package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentValidate(t *testing.T) {
	tests := []struct {
		name    string
		intent  Intent
		wantErr bool
		field   string
	}{
		{"TimerOne", TimerIntent(1), false, ""},
		{"TimerDay", TimerIntent(1440), false, ""},
		{"TimerZero", TimerIntent(0), true, "minutes"},
		{"TimerNegative", TimerIntent(-5), true, "minutes"},
		{"TimerOverflow", TimerIntent(MaxMinutes + 1), true, "minutes"},
		{"ScheduledMidnight", ScheduledIntent(0, 0), false, ""},
		{"ScheduledLast", ScheduledIntent(23, 59), false, ""},
		{"ScheduledHour24", ScheduledIntent(24, 0), true, "hour"},
		{"ScheduledHourNegative", ScheduledIntent(-1, 0), true, "hour"},
		{"ScheduledMinute60", ScheduledIntent(12, 60), true, "minute"},
		{"UnknownMode", Intent{Minutes: 5}, true, "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.intent.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidIntent))

			var ie *IntentError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}

func TestTimerDeadlineIsExact(t *testing.T) {
	// Sub-second offsets must not be rounded away.
	offsets := []time.Duration{0, 1, 123 * time.Millisecond, 999999999}
	for _, off := range offsets {
		now := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC).Add(off)
		for _, m := range []int{1, 30, 90, 1440, 10000} {
			got, err := TimerIntent(m).Deadline(now)
			require.NoError(t, err)
			assert.Equal(t, time.Duration(m)*time.Minute, got.Sub(now), "minutes=%d offset=%v", m, off)
		}
	}
}

func TestScheduledDeadlineEveryClockTime(t *testing.T) {
	now := time.Date(2026, 3, 14, 13, 37, 0, 0, time.UTC)

	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			got, err := ScheduledIntent(h, m).Deadline(now)
			require.NoError(t, err)

			today := time.Date(2026, 3, 14, h, m, 0, 0, time.UTC)
			if today.After(now) {
				assert.True(t, got.Equal(today), "%02d:%02d should stay today, got %v", h, m, got)
			} else {
				assert.Equal(t, 24*time.Hour, got.Sub(today), "%02d:%02d should roll to tomorrow", h, m)
			}
			assert.Equal(t, h, got.Hour())
			assert.Equal(t, m, got.Minute())
			assert.Equal(t, 0, got.Second())
			assert.True(t, got.After(now))
		}
	}
}

func TestScheduledAlreadyPassedRollsToNextDay(t *testing.T) {
	now := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)

	got, err := ScheduledIntent(21, 0).Deadline(now)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 3, 15, 21, 0, 0, 0, time.UTC)), "got %v", got)
}

func TestScheduledBoundaryIsInclusive(t *testing.T) {
	exact := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)

	got, err := ScheduledIntent(21, 0).Deadline(exact)
	require.NoError(t, err)
	assert.True(t, got.Equal(exact.Add(24*time.Hour)), "target equal to now must roll, got %v", got)

	justBefore := exact.Add(-500 * time.Millisecond)
	got, err = ScheduledIntent(21, 0).Deadline(justBefore)
	require.NoError(t, err)
	assert.True(t, got.Equal(exact), "got %v", got)
}

func TestScheduledRollsAcrossMonthEnd(t *testing.T) {
	now := time.Date(2026, 12, 31, 23, 30, 0, 0, time.UTC)

	got, err := ScheduledIntent(6, 15).Deadline(now)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2027, 1, 1, 6, 15, 0, 0, time.UTC)), "got %v", got)
}

func TestScheduledUsesNowLocation(t *testing.T) {
	zone := time.FixedZone("UTC+8", 8*60*60)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, zone)

	got, err := ScheduledIntent(10, 0).Deadline(now)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, got.Sub(now))
	assert.Equal(t, 10, got.In(zone).Hour())
}

func TestDeadlineRejectsInvalidIntent(t *testing.T) {
	_, err := ScheduledIntent(25, 0).Deadline(time.Now())
	assert.ErrorIs(t, err, ErrInvalidIntent)
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{"21:00", ClockTime{21, 0}, false},
		{"9:05", ClockTime{9, 5}, false},
		{" 00:00 ", ClockTime{0, 0}, false},
		{"23:59", ClockTime{23, 59}, false},
		{"24:00", ClockTime{}, true},
		{"12:60", ClockTime{}, true},
		{"12:5", ClockTime{}, true},
		{"noon", ClockTime{}, true},
		{"ab:00", ClockTime{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClockTime(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidIntent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "timer 30 min", TimerIntent(30).String())
	assert.Equal(t, "at 07:05", ScheduledIntent(7, 5).String())
	assert.Equal(t, "timer", ModeTimer.String())
	assert.Equal(t, "scheduled", ModeScheduled.String())
}
