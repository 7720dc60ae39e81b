package dlog

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg     *Config
	console ConsoleSink
	err     error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger()

	// Apply the built configuration. ApplyConfig handles validation.
	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	if b.console != nil {
		logger.SetConsole(b.console)
	}

	return logger, nil
}

// OutputFile sets the message log path.
func (b *Builder) OutputFile(path string) *Builder {
	b.cfg.OutputFile = path
	return b
}

// DiagnosticsFile sets the scope tracer log path.
func (b *Builder) DiagnosticsFile(path string) *Builder {
	b.cfg.DiagnosticsFile = path
	return b
}

// EnableFile sets the default file routing for new Message builders.
func (b *Builder) EnableFile(enable bool) *Builder {
	b.cfg.EnableFile = enable
	return b
}

// EnableConsole sets the default console routing for new Message builders.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// ConsoleTarget selects "stdout" or "stderr" as the console writer.
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// ConsoleColor enables colorized console echoes.
func (b *Builder) ConsoleColor(enable bool) *Builder {
	b.cfg.ConsoleColor = enable
	return b
}

// Console injects a custom console backend, overriding target and color
// selection. Use NewMultiConsole to add a debugger-output mirror.
func (b *Builder) Console(sink ConsoleSink) *Builder {
	b.console = sink
	return b
}

// MaxSizeKB sets the message log rotation threshold in KB.
func (b *Builder) MaxSizeKB(size int64) *Builder {
	b.cfg.MaxSizeKB = size
	return b
}

// MaxSizeMB sets the message log rotation threshold in MB. Convenience.
func (b *Builder) MaxSizeMB(size int64) *Builder {
	b.cfg.MaxSizeKB = size * 1024
	return b
}

// DiagMaxSizeKB sets the diagnostics log rotation threshold in KB.
func (b *Builder) DiagMaxSizeKB(size int64) *Builder {
	b.cfg.DiagMaxSizeKB = size
	return b
}

// TimestampFormat sets the time layout used in log lines.
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.cfg.TimestampFormat = layout
	return b
}

// InternalErrorsToStderr mirrors logger-internal problems to stderr.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Example usage:
//
//	logger, err := dlog.NewBuilder().
//		OutputFile("/var/log/app/output.log").
//		DiagnosticsFile("/var/log/app/diagnostics.log").
//		EnableConsole(false).
//		MaxSizeMB(5).
//		Build()
//
//	if err == nil {
//		defer logger.Shutdown()
//		logger.Print("logger initialized")
//	}
