package main

import (
	"fmt"
	"time"

	"github.com/lixenwraith/dlog"
	"github.com/lixenwraith/dlog/compat"
	"github.com/valyala/fasthttp"
)

var logger *dlog.Logger

func main() {
	var err error
	logger, err = dlog.NewBuilder().
		OutputFile("/var/log/fasthttp/output.log").
		DiagnosticsFile("/var/log/fasthttp/diagnostics.log").
		EnableConsole(false).
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	// Create fasthttp adapter writing into the shared message log
	fasthttpAdapter := compat.NewFastHTTPAdapter(logger)

	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:         "MyServer",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		TCPKeepalive: true,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	scope := logger.Trace("request")
	defer scope.End()

	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())

	logger.NewMessage().Append("served", string(ctx.Path())).Commit()
}
