package asynclog

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsSnapshot(t *testing.T) {
	logger, logPath := createTestLogger(t)
	defer logger.Shutdown()

	logger.SetDiagnostics(io.Discard)

	logger.Log(LevelInfo, "accepted")
	logger.Log(LevelDebug, "filtered")
	logger.Log(42, "rejected")
	require.NoError(t, logger.Flush(time.Second))

	stats := logger.Stats()
	assert.True(t, stats.Running)
	assert.Equal(t, logPath, stats.Destination)
	assert.Equal(t, uint64(1), stats.Accepted)
	assert.Equal(t, uint64(1), stats.Filtered)
	assert.Equal(t, uint64(1), stats.Rejected)
	assert.Equal(t, uint64(1), stats.Drained)
	assert.GreaterOrEqual(t, stats.DrainPasses, uint64(1))
	assert.Zero(t, stats.WriteFailures)
	assert.NoError(t, stats.LastDrainError)
}

func TestLastDrainError(t *testing.T) {
	var s State
	assert.NoError(t, s.lastDrainError())

	first := errors.New("first")
	s.LastDrainError.Store(errorHolder{err: first})
	assert.Same(t, first, s.lastDrainError())

	// Different concrete error types share one atomic.Value
	second := &WriteFailure{Path: "x", Err: first}
	s.LastDrainError.Store(errorHolder{err: second})
	assert.Same(t, second, s.lastDrainError())
}

func TestRecordDrainResult(t *testing.T) {
	logger, err := New(LevelInfo, time.Second)
	require.NoError(t, err)
	diag := &syncBuffer{}
	logger.SetDiagnostics(diag)

	logger.recordDrainResult(DrainResult{Records: 3})
	assert.Empty(t, diag.String(), "clean passes are not reported")

	failure := &WriteFailure{Path: "a.log", Err: errors.New("disk full")}
	logger.recordDrainResult(DrainResult{Records: 1, WriteFailures: 2, Err: failure})

	stats := logger.Stats()
	assert.Equal(t, uint64(4), stats.Drained)
	assert.Equal(t, uint64(2), stats.WriteFailures)
	assert.Equal(t, uint64(2), stats.DrainPasses)
	assert.Same(t, failure, stats.LastDrainError)
	assert.Equal(t, "log: drain pass wrote 1 lines, 2 failed: log: failed to write to 'a.log': disk full\n", diag.String())
}

func TestSetDiagnosticsNilDiscards(t *testing.T) {
	logger, err := New(LevelInfo, time.Second)
	require.NoError(t, err)

	logger.SetDiagnostics(nil)
	assert.NotPanics(t, func() {
		logger.Log(LevelTrace-1, "rejected")
	})
	assert.Equal(t, uint64(1), logger.Stats().Rejected)
}
