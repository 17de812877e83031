// FILE: lixenwraith/asynclog/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/asynclog"
	"github.com/valyala/fasthttp"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter wraps asynclog.Logger to implement the fasthttp Logger interface
type FastHTTPAdapter struct {
	logger        *asynclog.Logger
	defaultLevel  int64
	levelDetector func(string) (int64, bool) // Detects a level from message content
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *asynclog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		defaultLevel:  asynclog.LevelInfo,
		levelDetector: DetectLogLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when no level is detected
func WithDefaultLevel(level int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message content,
// nil disables detection
func WithLevelDetector(detector func(string) (int64, bool)) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected, ok := a.levelDetector(msg); ok {
			level = detected
		}
	}

	a.logger.Log(level, "fasthttp: "+msg)
}

// DetectLogLevel guesses a level from keywords in the message
func DetectLogLevel(msg string) (int64, bool) {
	msgLower := strings.ToLower(msg)

	switch {
	case strings.Contains(msgLower, "error"),
		strings.Contains(msgLower, "failed"),
		strings.Contains(msgLower, "fatal"),
		strings.Contains(msgLower, "panic"):
		return asynclog.LevelError, true
	case strings.Contains(msgLower, "debug"):
		return asynclog.LevelDebug, true
	case strings.Contains(msgLower, "trace"):
		return asynclog.LevelTrace, true
	}

	return 0, false
}
