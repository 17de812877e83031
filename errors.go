// FILE: errors.go
package asynclog

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below
var (
	ErrConfiguration = errors.New("log: invalid configuration")
	ErrIO            = errors.New("log: destination unavailable")
	ErrInvalidCall   = errors.New("log: invalid log call")
	ErrWrite         = errors.New("log: write failed")
	ErrShutdown      = errors.New("log: logger already shut down")
)

// ConfigurationError rejects a constructor or config argument
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("log: invalid configuration: %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// newConfigError builds a ConfigurationError with a formatted reason
func newConfigError(field string, value any, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// InvalidCallWarning describes a rejected Log call. It is reported on the
// diagnostics channel, never returned to the producer.
type InvalidCallWarning struct {
	Level int64
	Text  string
}

func (w *InvalidCallWarning) Error() string {
	if w.Text == "" {
		return fmt.Sprintf("log: invalid parameters for Log: level=%d, empty message", w.Level)
	}
	return fmt.Sprintf("log: invalid parameters for Log: level=%d message=%q", w.Level, w.Text)
}

func (w *InvalidCallWarning) Unwrap() error {
	return ErrInvalidCall
}

// IOError reports a destination that could not be opened or closed
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("log: cannot %s log destination '%s': %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// WriteFailure reports a line that could not be written to the current sink
type WriteFailure struct {
	Path string // empty for the console fallback
	Err  error
}

func (e *WriteFailure) Error() string {
	target := e.Path
	if target == "" {
		target = "console"
	}
	return fmt.Sprintf("log: failed to write to '%s': %v", target, e.Err)
}

func (e *WriteFailure) Unwrap() []error {
	return []error{ErrWrite, e.Err}
}
