package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/offtimer/offtimer-go/pkg/log"
)

var ts = time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.olog")

	logger, err := log.NewFileLogger(path)
	require.NoError(t, err)
	for _, e := range events {
		logger.Log(e)
	}
	require.NoError(t, logger.Close())

	return path
}

func u32(v uint32) *uint32 { return &v }

// sampleEvents is one cancelled timer cycle, one completed scheduled cycle
// and a rejected arm.
func sampleEvents() []log.Event {
	d1 := ts.Add(5 * time.Minute)
	d2 := ts.Add(time.Hour)
	return []log.Event{
		{
			Timestamp:   ts,
			CycleID:     "aaaaaaaa-1111-4000-8000-000000000001",
			Kind:        log.KindArm,
			Deadline:    &d1,
			Intent:      &log.IntentData{Mode: "timer", Minutes: 5},
			StateChange: &log.StateChangeEvent{OldState: "IDLE", NewState: "ARMED"},
		},
		{Timestamp: ts, CycleID: "aaaaaaaa-1111-4000-8000-000000000001", Kind: log.KindTick, Remaining: u32(300)},
		{
			Timestamp:   ts.Add(2 * time.Second),
			CycleID:     "aaaaaaaa-1111-4000-8000-000000000001",
			Kind:        log.KindCancel,
			Deadline:    &d1,
			StateChange: &log.StateChangeEvent{OldState: "ARMED", NewState: "IDLE", Reason: "cancelled"},
		},
		{
			Timestamp: ts.Add(3 * time.Second),
			Kind:      log.KindReject,
			Intent:    &log.IntentData{Mode: "timer"},
			Error:     &log.ErrorEventData{Message: "invalid intent", Context: "arm"},
		},
		{
			Timestamp: ts.Add(4 * time.Second),
			CycleID:   "bbbbbbbb-2222-4000-8000-000000000002",
			Kind:      log.KindArm,
			Deadline:  &d2,
			Intent:    &log.IntentData{Mode: "scheduled", Hour: 23, Minute: 0},
		},
		{Timestamp: ts.Add(5 * time.Second), CycleID: "bbbbbbbb-2222-4000-8000-000000000002", Kind: log.KindTick, Remaining: u32(1)},
		{
			Timestamp:   d2,
			CycleID:     "bbbbbbbb-2222-4000-8000-000000000002",
			Kind:        log.KindComplete,
			Deadline:    &d2,
			StateChange: &log.StateChangeEvent{OldState: "FIRING", NewState: "IDLE", Reason: "power-off invoked"},
		},
	}
}
