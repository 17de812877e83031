// FILE: lixenwraith/asynclog/logger.go
package asynclog

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/asynclog/formatter"
	"github.com/lixenwraith/asynclog/sanitizer"
	"github.com/lixenwraith/asynclog/stack"
)

// Logger is the core struct that encapsulates all logger functionality.
// Producers call Log from any goroutine; a single drain goroutine, started
// by Start, writes queued records to the current destination.
type Logger struct {
	cfg       *Config // Immutable after construction
	queue     stack.Stack[logRecord]
	sink      *sinkManager
	formatter *formatter.Formatter // Used only by the drain pass
	state     State

	diagMu sync.Mutex
	diag   io.Writer
}

// New creates a stopped logger with the given minimum level and flush
// interval, writing to the console until SetDestination is called
func New(level int64, flushInterval time.Duration) (*Logger, error) {
	if flushInterval < 0 {
		return nil, newConfigError("flush_interval_ms", flushInterval, "cannot be negative")
	}
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.FlushIntervalMs = flushInterval.Milliseconds()
	return NewLogger(cfg)
}

// NewLogger creates a stopped logger from a configuration. Invalid
// configurations fail with a *ConfigurationError and allocate nothing.
func NewLogger(cfg *Config) (*Logger, error) {
	if cfg == nil {
		return nil, newConfigError("config", nil, "configuration cannot be nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	l := &Logger{
		cfg:  cfg.Clone(),
		diag: os.Stderr,
	}

	var console io.Writer = os.Stdout
	if l.cfg.ConsoleTarget == "stderr" {
		console = os.Stderr
	}
	l.sink = newSinkManager(console, l.internalLog)

	l.formatter = formatter.New(sanitizer.New(sanitizer.Policy(l.cfg.Sanitization))).
		Type(l.cfg.Format).
		TimestampFormat(l.cfg.TimestampFormat)

	l.state.Lifecycle.Store(stateStopped)
	l.state.LoggerStartTime.Store(time.Now())
	l.state.flushRequestChan = make(chan chan struct{}, 1)

	if l.cfg.Destination != "" {
		if err := l.sink.setDestination(l.cfg.Destination); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// GetConfig returns a copy of the configuration
func (l *Logger) GetConfig() *Config {
	return l.cfg.Clone()
}

// Log queues text at the given level. It never blocks and never returns an
// error: invalid calls are reported on the diagnostics channel and dropped,
// levels below the threshold are ignored.
func (l *Logger) Log(level int64, text string) {
	if !validLevel(level) || text == "" {
		l.state.TotalRejected.Add(1)
		l.internalLog("%v\n", &InvalidCallWarning{Level: level, Text: text})
		return
	}

	if level < l.cfg.Level {
		l.state.TotalFiltered.Add(1)
		return
	}

	if l.state.ShutdownCalled.Load() {
		l.state.TotalDropped.Add(1)
		return
	}

	l.enqueue(level, text)
	l.state.TotalAccepted.Add(1)
}

// SetDestination switches output to the file at path, or back to the
// console when path is empty. The previous file is closed in the background.
// If the file cannot be opened the current destination stays in effect and
// an *IOError is returned (and reported on the diagnostics channel).
// Returns ErrShutdown once Shutdown has been called.
func (l *Logger) SetDestination(path string) error {
	if l.state.ShutdownCalled.Load() {
		return ErrShutdown
	}
	if err := l.sink.setDestination(path); err != nil {
		if errors.Is(err, ErrShutdown) {
			return err
		}
		l.state.TotalDestErrors.Add(1)
		return err
	}
	return nil
}

// Start launches the drain goroutine. Safe to call multiple times and from
// multiple goroutines, exactly one goroutine runs until Stop.
// Returns ErrShutdown once Shutdown has been called.
func (l *Logger) Start() error {
	if l.state.ShutdownCalled.Load() {
		return ErrShutdown
	}
	if l.state.running() {
		return nil
	}

	l.state.lifeMu.Lock()
	defer l.state.lifeMu.Unlock()

	if l.state.ShutdownCalled.Load() {
		return ErrShutdown
	}
	if !l.state.Lifecycle.CompareAndSwap(stateStopped, stateStarting) {
		return nil // Already running
	}

	w := &worker{
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	l.state.worker = w
	go l.processLogs(w)
	l.state.Lifecycle.Store(stateRunning)

	return nil
}

// Stop signals the drain goroutine and blocks until its final pass has
// written every record queued before the call. Safe to call when stopped.
// Returns the final pass error, if any; the logger stays usable either way.
func (l *Logger) Stop() error {
	if l.state.Lifecycle.Load() == stateStopped {
		return nil
	}

	l.state.lifeMu.Lock()
	defer l.state.lifeMu.Unlock()

	if !l.state.Lifecycle.CompareAndSwap(stateRunning, stateStopping) {
		return nil // Already stopped
	}

	w := l.state.worker
	close(w.shutdown)
	<-w.done
	l.state.worker = nil
	l.state.Lifecycle.Store(stateStopped)

	return w.final.Err
}

// Flush asks the running drain goroutine for an immediate pass and waits
// for it to complete or for the timeout
func (l *Logger) Flush(timeout time.Duration) error {
	l.state.flushMutex.Lock()
	defer l.state.flushMutex.Unlock()

	if l.state.ShutdownCalled.Load() {
		return ErrShutdown
	}

	// Pin the worker so a concurrent Stop is observed through its done channel
	l.state.lifeMu.Lock()
	w := l.state.worker
	if !l.state.running() {
		w = nil
	}
	l.state.lifeMu.Unlock()
	if w == nil {
		return fmtErrorf("logger not started")
	}

	confirmChan := make(chan struct{})

	select {
	case l.state.flushRequestChan <- confirmChan:
	case <-w.done:
		return fmtErrorf("logger stopped before flush was requested")
	case <-time.After(minWaitTime): // Short timeout to prevent blocking if processor is stuck
		return fmtErrorf("failed to send flush request to processor (possible deadlock or high load)")
	}

	select {
	case <-confirmChan:
		return nil
	case <-w.done:
		// The exiting worker answers requests it saw, a request sent after
		// its last look is still queued and is ours (Flush is serialized)
		l.answerPendingFlushes()
		select {
		case <-confirmChan:
			return nil
		case <-time.After(timeout):
			return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
		}
	case <-time.After(timeout):
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// Shutdown stops the logger for good: the drain goroutine exits after its
// final pass, anything queued while stopped is written, the destination is
// closed and waited for. Later Log calls are dropped and Start fails.
func (l *Logger) Shutdown() error {
	// Set under the lifecycle lock so a Start holding it either finishes
	// launching before Stop runs or observes the flag on its re-check
	l.state.lifeMu.Lock()
	first := l.state.ShutdownCalled.CompareAndSwap(false, true)
	l.state.lifeMu.Unlock()
	if !first {
		return nil
	}

	stopErr := l.Stop()

	// No drain goroutine can start any more, the queue has a single consumer here
	l.state.lifeMu.Lock()
	res := l.drainPass(true)
	l.state.lifeMu.Unlock()

	finalErr := combineErrors(stopErr, res.Err)
	l.sink.close()
	if err := l.sink.waitClosers(); err != nil {
		finalErr = combineErrors(finalErr, err)
	}
	return finalErr
}
