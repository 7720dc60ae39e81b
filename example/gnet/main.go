package main

import (
	"github.com/lixenwraith/dlog"
	"github.com/lixenwraith/dlog/compat"
	"github.com/panjf2000/gnet/v2"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	logger, err := dlog.NewBuilder().
		OutputFile("/var/log/gnet/output.log").
		DiagnosticsFile("/var/log/gnet/diagnostics.log").
		EnableConsole(false).
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	// Surface an abnormal exit of the previous run before serving
	if logger.DetectPreviousCrash() {
		logger.Print("previous run terminated abnormally, see diagnostics.log")
	}

	gnetAdapter := compat.NewGnetAdapter(logger)

	scope := logger.Trace("serve")
	defer scope.End()

	// Route gnet's internal logging into the shared message log
	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}
