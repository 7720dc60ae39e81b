package compat

import (
	"fmt"

	"github.com/lixenwraith/dlog"
)

// FastHTTPAdapter wraps a dlog.Logger to implement fasthttp's Logger interface
type FastHTTPAdapter struct {
	logger *dlog.Logger
	source string // Tag prepended to every message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *dlog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger: logger,
		source: "fasthttp",
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithSource overrides the source tag prepended to each message
func WithSource(tag string) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.source = tag
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.NewMessage().Append(a.source, msg).Commit()
}
