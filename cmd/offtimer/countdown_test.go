package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offtimer/offtimer-go/pkg/clock"
	"github.com/offtimer/offtimer-go/pkg/poweroff"
	"github.com/offtimer/offtimer-go/pkg/schedule"
)

var epoch = time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)

func newCountdownScheduler(t *testing.T, action poweroff.Action) (*schedule.Scheduler, *clock.Fake) {
	t.Helper()
	fc := clock.NewFake(epoch)
	sched, err := schedule.New(schedule.Config{Action: action, Clock: fc})
	require.NoError(t, err)
	t.Cleanup(sched.Close)
	return sched, fc
}

// drive advances the fake clock a second at a time until the countdown
// returns.
func drive(t *testing.T, sched *schedule.Scheduler, fc *clock.Fake, done <-chan int) int {
	t.Helper()
	require.Eventually(t, func() bool {
		return sched.State() != schedule.StateIdle
	}, 2*time.Second, time.Millisecond)

	timeout := time.After(5 * time.Second)
	for {
		select {
		case code := <-done:
			return code
		case <-timeout:
			t.Fatal("countdown did not finish")
			return -1
		default:
			fc.Advance(time.Second)
			time.Sleep(time.Millisecond)
		}
	}
}

func TestRunCountdownCompletes(t *testing.T) {
	var fired int
	sched, fc := newCountdownScheduler(t, poweroff.Func(func(context.Context) error {
		fired++
		return nil
	}))

	var out bytes.Buffer
	done := make(chan int, 1)
	go func() { done <- runCountdown(sched, schedule.TimerIntent(1), &out, nil) }()

	assert.Equal(t, exitCompleted, drive(t, sched, fc, done))
	assert.Equal(t, 1, fired)
	assert.Contains(t, out.String(), "Power-off scheduled for 2026-03-14 22:01:00 (timer 1 min)")
	assert.Contains(t, out.String(), "Power-off invoked.")
}

func TestRunCountdownFailure(t *testing.T) {
	sched, fc := newCountdownScheduler(t, poweroff.Func(func(context.Context) error {
		return errors.New("permission denied")
	}))

	var out bytes.Buffer
	done := make(chan int, 1)
	go func() { done <- runCountdown(sched, schedule.TimerIntent(1), &out, nil) }()

	assert.Equal(t, exitFailed, drive(t, sched, fc, done))
	assert.Contains(t, out.String(), "Power-off failed: permission denied")
}

func TestRunCountdownSignalCancels(t *testing.T) {
	sched, _ := newCountdownScheduler(t, poweroff.Func(func(context.Context) error {
		t.Error("power-off must not run after cancel")
		return nil
	}))

	sigCh := make(chan os.Signal, 1)
	sigCh <- syscall.SIGINT

	var out bytes.Buffer
	code := runCountdown(sched, schedule.TimerIntent(10), &out, sigCh)

	assert.Equal(t, exitCancelled, code)
	assert.Contains(t, out.String(), "Power-off cancelled.")
	assert.Equal(t, schedule.StateIdle, sched.State())
}

func TestRunCountdownRejected(t *testing.T) {
	sched, _ := newCountdownScheduler(t, poweroff.Func(func(context.Context) error { return nil }))

	var out bytes.Buffer
	code := runCountdown(sched, schedule.TimerIntent(0), &out, nil)

	assert.Equal(t, exitRejected, code)
	assert.Contains(t, out.String(), "Cannot schedule power-off")
}

func TestGrowTotal(t *testing.T) {
	total, grown := growTotal(10, 11)
	assert.True(t, grown)
	assert.Equal(t, uint32(11), total)
	assert.Equal(t, uint32(0), total-11)

	total, grown = growTotal(10, 10)
	assert.False(t, grown)
	assert.Equal(t, uint32(10), total)

	total, grown = growTotal(10, 3)
	assert.False(t, grown)
	assert.Equal(t, uint32(10), total)
}
