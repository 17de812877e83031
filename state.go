// FILE: state.go
package asynclog

import (
	"sync"
	"sync/atomic"
)

// State encapsulates the runtime state of the logger
type State struct {
	Lifecycle      atomic.Int32 // stateStopped, stateStarting, stateRunning or stateStopping
	ShutdownCalled atomic.Bool

	lifeMu sync.Mutex // Serializes Start, Stop and the Shutdown drain
	worker *worker    // Current drain goroutine, guarded by lifeMu

	flushRequestChan chan chan struct{} // Channel to request an immediate drain pass
	flushMutex       sync.Mutex         // Protect concurrent Flush calls

	// Producer side counters
	TotalAccepted atomic.Uint64 // Records pushed onto the queue
	TotalRejected atomic.Uint64 // Invalid Log calls
	TotalFiltered atomic.Uint64 // Records below the level threshold
	TotalDropped  atomic.Uint64 // Records discarded after Shutdown

	// Drain side counters
	TotalDrained       atomic.Uint64 // Lines written, heartbeats included
	TotalWriteFailures atomic.Uint64 // Lines that failed to write
	TotalDrainPasses   atomic.Uint64
	TotalDestErrors    atomic.Uint64 // Failed destination opens
	LastDrainError     atomic.Value  // stores errorHolder

	// Heartbeat statistics
	HeartbeatSequence atomic.Uint64
	LoggerStartTime   atomic.Value // stores time.Time
}

// errorHolder lets atomic.Value store differing error types
type errorHolder struct {
	err error
}

// running reports whether a drain goroutine is live
func (s *State) running() bool {
	return s.Lifecycle.Load() == stateRunning
}

// lastDrainError returns the most recent failed pass error, if any
func (s *State) lastDrainError() error {
	if h, ok := s.LastDrainError.Load().(errorHolder); ok {
		return h.err
	}
	return nil
}
