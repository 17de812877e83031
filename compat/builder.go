package compat

import (
	"fmt"

	"github.com/lixenwraith/asynclog"
)

// Builder provides a flexible way to create configured logger adapters for gnet and fasthttp.
// It can use an existing *asynclog.Logger instance or create and start a new one from a *asynclog.Config.
type Builder struct {
	logger *asynclog.Logger
	logCfg *asynclog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithLogger(l *asynclog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("log/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance.
// If neither WithLogger nor WithConfig is used, a default logger is created.
func (b *Builder) WithConfig(cfg *asynclog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the logger to be used, creating and starting one if necessary
func (b *Builder) getLogger() (*asynclog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	cfg := b.logCfg
	if cfg == nil {
		cfg = asynclog.DefaultConfig()
	}

	l, err := asynclog.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	if err := l.Start(); err != nil {
		return nil, err
	}

	// Cache the newly created logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// GetLogger returns the underlying logger, creating it if needed
func (b *Builder) GetLogger() (*asynclog.Logger, error) {
	return b.getLogger()
}

// --- Example Usage ---
//
//	appLogger, err := asynclog.NewBuilder().
//		LevelString("debug").
//		Destination("/var/log/app.log").
//		Build()
//	if err != nil { /* handle error */ }
//	_ = appLogger.Start()
//	defer appLogger.Shutdown()
//
//	builder := compat.NewBuilder().WithLogger(appLogger)
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")
