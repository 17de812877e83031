// FILE: lixenwraith/asynclog/builder.go
package asynclog

import "time"

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build validates the configuration and creates a stopped Logger.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewLogger(b.cfg)
}

// Config returns a copy of the configuration built so far.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg.Clone(), nil
}

// Level sets the minimum log level.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the minimum log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// FlushInterval sets the delay between drain passes, truncated to milliseconds.
func (b *Builder) FlushInterval(d time.Duration) *Builder {
	b.cfg.FlushIntervalMs = d.Milliseconds()
	return b
}

// Destination sets the initial destination file.
func (b *Builder) Destination(path string) *Builder {
	b.cfg.Destination = path
	return b
}

// ConsoleTarget selects the fallback stream ("stdout" or "stderr").
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// Format sets the output format.
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// TimestampFormat sets the timestamp layout.
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.cfg.TimestampFormat = layout
	return b
}

// Sanitization sets the message sanitization policy.
func (b *Builder) Sanitization(policy string) *Builder {
	b.cfg.Sanitization = policy
	return b
}

// HeartbeatIntervalS enables periodic stats records every interval seconds.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// InternalErrorsToStderr toggles the diagnostics channel.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Override applies "key=value" strings, see Config.ApplyOverride.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.cfg.ApplyOverride(overrides...); err != nil {
		b.err = err
	}
	return b
}

// Example usage:
// logger, err := asynclog.NewBuilder().
//
//	Destination("/var/log/app.log").
//	LevelString("debug").
//	FlushInterval(500 * time.Millisecond).
//	Build()
//
// if err == nil {
//
//	 logger.Start()
//	 defer logger.Shutdown()
//	 logger.Info("Logger initialized successfully")
//
// }
