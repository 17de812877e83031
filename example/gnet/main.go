// FILE: example/gnet/main.go
package main

import (
	"github.com/lixenwraith/asynclog"
	"github.com/lixenwraith/asynclog/compat"
	"github.com/panjf2000/gnet/v2"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
	logger *asynclog.Logger
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	es.logger.Debug("echo", len(buf), "bytes to", c.RemoteAddr())
	c.Write(buf)
	return gnet.None
}

func main() {
	logger, err := asynclog.NewBuilder().
		Destination("/var/log/gnet/echo.log").
		Override(
			"level=debug",
			"format=json",
		).
		Build()
	if err != nil {
		panic(err)
	}
	if err := logger.Start(); err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	gnetAdapter := compat.NewGnetAdapter(logger)

	// Configure gnet server with the logger
	err = gnet.Run(
		&echoServer{logger: logger},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		logger.Error("gnet stopped:", err)
	}
}
