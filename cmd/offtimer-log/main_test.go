package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offtimer/offtimer-go/pkg/log"
	"github.com/offtimer/offtimer-go/pkg/version"
)

func writeLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.olog")
	fl, err := log.NewFileLogger(path)
	require.NoError(t, err)

	ts := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)
	fl.Log(log.Event{Timestamp: ts, CycleID: "c-1", Kind: log.KindArm, Intent: &log.IntentData{Mode: "timer", Minutes: 1}})
	fl.Log(log.Event{Timestamp: ts.Add(time.Minute), CycleID: "c-1", Kind: log.KindComplete})
	require.NoError(t, fl.Close())
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cycleID, kind, format, outputPath, limit = "", "", "", "", 0

	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	app.ErrWriter = &buf
	err := app.Run(append([]string{"offtimer-log"}, args...))
	return buf.String(), err
}

func TestViewCommand(t *testing.T) {
	path := writeLog(t)

	out, err := runApp(t, "view", "--kind", "complete", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[cycle:c-1] COMPLETE")
	assert.NotContains(t, out, "ARM")
}

func TestExportCommandDefaultsToJSONL(t *testing.T) {
	path := writeLog(t)

	out, err := runApp(t, "export", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"kind":"ARM"`)
}

func TestFilterCommandRequiresOutput(t *testing.T) {
	path := writeLog(t)

	_, err := runApp(t, "filter", path)
	assert.ErrorContains(t, err, "--output is required")
}

func TestMissingFileArgument(t *testing.T) {
	_, err := runApp(t, "stats")
	assert.ErrorIs(t, err, errMissingFile)
}

func TestVersionFlag(t *testing.T) {
	out, err := runApp(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "offtimer-log version "+version.Current)
}
