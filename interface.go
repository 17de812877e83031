// FILE: interface.go
package asynclog

import (
	"github.com/lixenwraith/asynclog/formatter"
)

// Logger instance methods for logging at the fixed levels. Arguments are
// joined with spaces, see formatter.Args.

// Trace logs a message at trace level.
func (l *Logger) Trace(args ...any) {
	l.log(LevelTrace, args...)
}

// Debug logs a message at debug level.
func (l *Logger) Debug(args ...any) {
	l.log(LevelDebug, args...)
}

// Info logs a message at info level.
func (l *Logger) Info(args ...any) {
	l.log(LevelInfo, args...)
}

// Error logs a message at error level.
func (l *Logger) Error(args ...any) {
	l.log(LevelError, args...)
}

// log renders args only when the level passes the threshold
func (l *Logger) log(level int64, args ...any) {
	if level < l.cfg.Level {
		l.state.TotalFiltered.Add(1)
		return
	}
	l.Log(level, formatter.Args(args...))
}
