package dlog

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// ConsoleSink is a pluggable console backend. The message builder echoes the
// bare message body (without the timestamp/tid wrapper) to the configured
// sink. Platform-specific channels, such as a debugger output stream, are
// attached by swapping or composing implementations at startup rather than
// branching per call.
type ConsoleSink interface {
	WriteLine(line string)
}

// writerConsole writes lines to an io.Writer, one per call
type writerConsole struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterConsole returns a ConsoleSink backed by w
func NewWriterConsole(w io.Writer) ConsoleSink {
	return &writerConsole{w: w}
}

func (c *writerConsole) WriteLine(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.w, line)
}

// colorConsole writes colorized lines to an io.Writer. fatih/color disables
// itself on non-terminal writers, so this degrades to plain output when
// redirected.
type colorConsole struct {
	mu sync.Mutex
	w  io.Writer
	c  *color.Color
}

// NewColorConsole returns a ConsoleSink that renders lines with the given
// color attributes. With no attributes, diagnostic output is dimmed cyan to
// stand apart from regular program output.
func NewColorConsole(w io.Writer, attrs ...color.Attribute) ConsoleSink {
	if len(attrs) == 0 {
		attrs = []color.Attribute{color.FgCyan}
	}
	return &colorConsole{
		w: w,
		c: color.New(attrs...),
	}
}

func (c *colorConsole) WriteLine(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.c.Fprintln(c.w, line)
}

// discardConsole drops every line
type discardConsole struct{}

// NewDiscardConsole returns a ConsoleSink that drops all output
func NewDiscardConsole() ConsoleSink {
	return discardConsole{}
}

func (discardConsole) WriteLine(string) {}

// multiConsole fans a line out to several sinks in order
type multiConsole struct {
	sinks []ConsoleSink
}

// NewMultiConsole returns a ConsoleSink that mirrors each line to every
// given sink, in order. Use it to attach a debugger-output channel alongside
// standard output.
func NewMultiConsole(sinks ...ConsoleSink) ConsoleSink {
	return &multiConsole{sinks: sinks}
}

func (m *multiConsole) WriteLine(line string) {
	for _, s := range m.sinks {
		s.WriteLine(line)
	}
}
