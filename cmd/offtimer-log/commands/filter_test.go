package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offtimer/offtimer-go/pkg/log"
)

func TestRunFilterWritesMatchingEvents(t *testing.T) {
	input := createTestLogFile(t, sampleEvents())
	output := filepath.Join(t.TempDir(), "cancelled.olog")

	filter, err := NewFilter("aaaaaaaa-1111-4000-8000-000000000001", "")
	require.NoError(t, err)

	n, err := RunFilter(input, output, filter)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	events, err := log.ReadAll(output, log.Filter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, log.KindArm, events[0].Kind)
	assert.Equal(t, log.KindCancel, events[2].Kind)
}

func TestRunFilterMissingInput(t *testing.T) {
	_, err := RunFilter("/nonexistent/in.olog", filepath.Join(t.TempDir(), "out.olog"), log.Filter{})
	assert.Error(t, err)
}
