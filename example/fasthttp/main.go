// FILE: examples/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/asynclog"
	"github.com/lixenwraith/asynclog/compat"
	"github.com/valyala/fasthttp"
)

func main() {
	// Create and configure logger
	cfg := asynclog.DefaultConfig()
	err := cfg.ApplyOverride(
		"destination=/var/log/fasthttp/server.log",
		"level=info",
		"format=txt",
		"flush_interval_ms=500",
		"heartbeat_interval_s=60",
	)
	if err != nil {
		panic(err)
	}

	logger, err := asynclog.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	if err := logger.Start(); err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(asynclog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler(logger),
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	// Start server
	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		logger.Error("server stopped:", err)
	}
}

func requestHandler(logger *asynclog.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		ctx.SetContentType("text/plain")
		fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
		logger.Info(string(ctx.Method()), string(ctx.Path()), ctx.Response.StatusCode(), time.Since(start))
	}
}

func customLevelDetector(msg string) (int64, bool) {
	// fasthttp reports per-connection problems, keep them visible
	if strings.Contains(msg, "connection cannot be served") {
		return asynclog.LevelInfo, true
	}
	if strings.Contains(msg, "error when serving connection") {
		return asynclog.LevelError, true
	}

	return compat.DetectLogLevel(msg)
}
