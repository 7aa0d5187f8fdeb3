package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offtimer/offtimer-go/pkg/config"
	"github.com/offtimer/offtimer-go/pkg/schedule"
)

func TestIntentFromFlags(t *testing.T) {
	intent, err := intentFromFlags(Flags{Minutes: 45})
	require.NoError(t, err)
	assert.Equal(t, schedule.TimerIntent(45), intent)

	intent, err = intentFromFlags(Flags{At: "07:30"})
	require.NoError(t, err)
	assert.Equal(t, schedule.ScheduledIntent(7, 30), intent)
}

func TestIntentFromFlagsErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
	}{
		{"none", Flags{}},
		{"both", Flags{Minutes: 5, At: "07:30"}},
		{"negative minutes", Flags{Minutes: -5}},
		{"bad clock", Flags{At: "7h30"}},
		{"hour out of range", Flags{At: "24:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := intentFromFlags(tt.flags)
			assert.Error(t, err)
		})
	}
}

func TestApplyFlagsOnlyExplicit(t *testing.T) {
	cfg := config.Default()
	cfg.EventLog = "/var/log/offtimer.olog"

	f := Flags{LogLevel: "debug", DryRun: true, EventLog: "", HistoryDB: "h.db"}
	applyFlags(&cfg, f, map[string]bool{"dry-run": true, "history": true})

	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.PowerOff.DryRun)
	assert.Equal(t, "/var/log/offtimer.olog", cfg.EventLog)
	assert.Equal(t, "h.db", cfg.HistoryDB)
}

func TestNewAppWiresEventLogAndHistory(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.PowerOff.DryRun = true
	cfg.EventLog = dir + "/events.olog"
	cfg.HistoryDB = dir + "/history.db"

	a, err := newApp(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, a.fileLog)
	require.NotNil(t, a.store)

	_, err = a.sched.Arm(schedule.TimerIntent(10))
	require.NoError(t, err)
	a.Close()
	a.Close()

	assert.Equal(t, schedule.StateIdle, a.sched.State())
}
