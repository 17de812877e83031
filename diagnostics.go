package asynclog

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// DrainResult summarizes one drain pass
type DrainResult struct {
	Records       int           // Lines written
	WriteFailures int           // Lines that could not be written
	Err           error         // First write failure, or a recovered panic
	Duration      time.Duration // Wall time of the pass
	Final         bool          // Pass run on shutdown
}

// Stats is a point-in-time snapshot of the logger counters
type Stats struct {
	Running     bool
	Destination string // empty when writing to console

	Accepted uint64
	Rejected uint64
	Filtered uint64
	Dropped  uint64

	Drained       uint64
	WriteFailures uint64
	DrainPasses   uint64
	DestErrors    uint64
	Heartbeats    uint64

	LastDrainError error
}

// Stats returns the current counters
func (l *Logger) Stats() Stats {
	return Stats{
		Running:        l.state.running(),
		Destination:    l.sink.currentPath(),
		Accepted:       l.state.TotalAccepted.Load(),
		Rejected:       l.state.TotalRejected.Load(),
		Filtered:       l.state.TotalFiltered.Load(),
		Dropped:        l.state.TotalDropped.Load(),
		Drained:        l.state.TotalDrained.Load(),
		WriteFailures:  l.state.TotalWriteFailures.Load(),
		DrainPasses:    l.state.TotalDrainPasses.Load(),
		DestErrors:     l.state.TotalDestErrors.Load(),
		Heartbeats:     l.state.HeartbeatSequence.Load(),
		LastDrainError: l.state.lastDrainError(),
	}
}

// SetDiagnostics redirects internal warnings and failures, nil discards them
func (l *Logger) SetDiagnostics(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	l.diagMu.Lock()
	l.diag = w
	l.diagMu.Unlock()
}

// internalLog writes logger diagnostics to the side channel, if enabled
func (l *Logger) internalLog(format string, args ...any) {
	if !l.cfg.InternalErrorsToStderr {
		return
	}

	// Ensure consistent "log: " prefix
	if !strings.HasPrefix(format, "log: ") {
		format = "log: " + format
	}

	l.diagMu.Lock()
	defer l.diagMu.Unlock()
	fmt.Fprintf(l.diag, format, args...)
}

// recordDrainResult folds a pass into the counters and reports failures
func (l *Logger) recordDrainResult(res DrainResult) {
	l.state.TotalDrainPasses.Add(1)
	l.state.TotalDrained.Add(uint64(res.Records))
	if res.WriteFailures > 0 {
		l.state.TotalWriteFailures.Add(uint64(res.WriteFailures))
	}
	if res.Err == nil {
		return
	}

	l.state.LastDrainError.Store(errorHolder{err: res.Err})
	l.internalLog("drain pass wrote %d lines, %d failed: %v\n", res.Records, res.WriteFailures, res.Err)
}
