package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithNoPathsReturnsEmpty(t *testing.T) {
	e := New()
	reports, stats, err := e.Run(nil)
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.Equal(t, int64(0), stats.Processed)
	assert.Equal(t, int64(0), stats.Violations)
}

func TestRunSkipsMissingFileWithoutFailingTheRun(t *testing.T) {
	e := New()
	reports, _, err := e.Run([]string{"/nonexistent/path/to/binary"})
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestNewEngineDefaultsToParallel(t *testing.T) {
	e := New()
	assert.True(t, e.ParallelProcessing)
}

func TestStatsReflectsRegistryCounters(t *testing.T) {
	e := New()
	before := e.Stats()
	assert.Equal(t, int64(0), before.UniqueSymbols)
}
