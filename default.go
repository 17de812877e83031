// --- File: default.go ---
package asynclog

import (
	"sync"
	"time"
)

var (
	defaultLogger   *Logger
	defaultLoggerMu sync.RWMutex
	defaultOnce     sync.Once
)

// Default returns the package-level logger, creating and starting it with
// DefaultConfig on first use
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLoggerMu.Lock()
		defer defaultLoggerMu.Unlock()
		if defaultLogger != nil {
			return
		}
		l, err := NewLogger(DefaultConfig())
		if err != nil {
			// DefaultConfig always validates
			panic(err)
		}
		_ = l.Start()
		defaultLogger = l
	})

	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the package-level logger and returns the previous one,
// which the caller is responsible for shutting down
func SetDefault(l *Logger) *Logger {
	defaultOnce.Do(func() {}) // A replaced default is never auto-created later
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	prev := defaultLogger
	defaultLogger = l
	return prev
}

// Default package-level functions that delegate to the default logger

// Log queues text at the given level
func Log(level int64, text string) {
	Default().Log(level, text)
}

// Trace logs a message at trace level
func Trace(args ...any) {
	Default().Trace(args...)
}

// Debug logs a message at debug level
func Debug(args ...any) {
	Default().Debug(args...)
}

// Info logs a message at info level
func Info(args ...any) {
	Default().Info(args...)
}

// Error logs a message at error level
func Error(args ...any) {
	Default().Error(args...)
}

// SetDestination switches the default logger output
func SetDestination(path string) error {
	return Default().SetDestination(path)
}

// Flush waits for the default logger to write everything queued so far
func Flush(timeout time.Duration) error {
	return Default().Flush(timeout)
}

// Shutdown shuts the default logger down
func Shutdown() error {
	return Default().Shutdown()
}
