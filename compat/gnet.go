package compat

import (
	"fmt"
	"os"

	"github.com/lixenwraith/dlog"
)

// GnetAdapter wraps a dlog.Logger to implement the gnet logging.Logger
// interface. dlog carries no level concept, so the severity is folded into
// the message body as a plain field.
type GnetAdapter struct {
	logger       *dlog.Logger
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *dlog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

func (a *GnetAdapter) logf(severity, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.NewMessage().Append("gnet", severity, msg).Commit()
}

// Debugf logs at debug severity with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logf("debug", format, args...)
}

// Infof logs at info severity with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logf("info", format, args...)
}

// Warnf logs at warn severity with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logf("warn", format, args...)
}

// Errorf logs at error severity with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logf("error", format, args...)
}

// Fatalf logs at fatal severity and triggers the fatal handler. Writes are
// synchronous, so the line is on disk before the handler runs.
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.NewMessage().Append("gnet", "fatal", msg).Commit()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
