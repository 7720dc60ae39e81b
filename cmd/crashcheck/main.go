// Command crashcheck demonstrates the crash-detection protocol.
//
// Run with -crash to simulate a process that dies with scopes open, then run
// again without the flag: the second run finds the non-zero depth suffix on
// the last diagnostics line and writes the crash sentinel.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lixenwraith/dlog"
)

func main() {
	crash := flag.Bool("crash", false, "exit without unwinding scopes")
	diagFile := flag.String("diag", "crashcheck_diagnostics.log", "diagnostics file path")
	flag.Parse()

	logger, err := dlog.NewBuilder().
		OutputFile("crashcheck_output.log").
		DiagnosticsFile(*diagFile).
		EnableConsole(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Shutdown()

	if logger.DetectPreviousCrash() {
		fmt.Println("previous run CRASHED: sentinel written to", *diagFile)
	} else {
		fmt.Println("previous run ended cleanly")
	}

	outer := logger.Trace("outer")
	inner := logger.Trace("inner")
	inner.Mark("working")

	if *crash {
		// Leave both scopes open; the last event keeps a non-zero |depth
		fmt.Println("simulating crash at depth", logger.Depth())
		os.Exit(1)
	}

	inner.End()
	outer.End()
	fmt.Println("unwound to depth", logger.Depth())
}
