package dlog

import (
	"os"
	"sync"
	"sync/atomic"
)

// Logger is the core struct that owns both file sinks, the console backend,
// the live-scope depth counter, and the crash-detection cache.
//
// A Logger is intended to be constructed once per process and shared;
// concurrent access is synchronized internally regardless of how many call
// sites hold the instance. The message sink and the diagnostics sink each
// have their own lock, so message logging and scope tracing never contend
// with each other.
type Logger struct {
	currentConfig atomic.Value // stores *Config
	initMu        sync.Mutex

	messages    *fileSink
	diagnostics *fileSink

	console       atomic.Value // stores consoleHolder
	customConsole atomic.Bool  // Console was injected, ApplyConfig must not rebuild it

	// Live open-scope counter. Updated by Scope start/end; its sampled value
	// is embedded into diagnostics events under the diagnostics sink's lock.
	scopeDepth atomic.Int64

	// Crash-detection cache, populated at most once per process by the
	// diagnostics sink's first open. Guarded by diagnostics.mu.
	crashChecked   bool
	crashedLastRun bool
}

// consoleHolder is an atomic value type change workaround
type consoleHolder struct {
	sink ConsoleSink
}

// NewLogger creates a new Logger instance with default settings
func NewLogger() *Logger {
	l := &Logger{}

	cfg := DefaultConfig()
	l.currentConfig.Store(cfg)

	l.messages = newFileSink(cfg.OutputFile, cfg.MaxSizeKB*sizeMultiplier)
	l.diagnostics = newFileSink(cfg.DiagnosticsFile, cfg.DiagMaxSizeKB*sizeMultiplier)
	l.diagnostics.onFirstOpen = l.detectPreviousCrashLocked

	l.console.Store(consoleHolder{sink: NewWriterConsole(os.Stdout)})

	return l
}

// ApplyConfig applies a validated configuration to the logger.
// Changes take effect on the next sink open and the next Message
// construction: a sink whose path or threshold changed is closed so the next
// write reopens lazily at the new target.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	l.currentConfig.Store(cfg.Clone())

	l.messages.configure(cfg.OutputFile, cfg.MaxSizeKB*sizeMultiplier)
	l.diagnostics.configure(cfg.DiagnosticsFile, cfg.DiagMaxSizeKB*sizeMultiplier)

	if !l.customConsole.Load() {
		l.console.Store(consoleHolder{sink: consoleFromConfig(cfg)})
	}

	return nil
}

// ApplyConfigString applies string key-value overrides to the logger's
// current configuration. Each override should be in the format "key=value".
func (l *Logger) ApplyConfigString(overrides ...string) error {
	cfg := l.getConfig().Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return combineConfigErrors(errors)
	}

	return l.ApplyConfig(cfg)
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// SetConsole replaces the console backend. The injected sink survives later
// ApplyConfig calls; pass nil to return console selection to the
// configuration. Compose with NewMultiConsole to mirror output to a
// platform debugger channel.
func (l *Logger) SetConsole(sink ConsoleSink) {
	if sink == nil {
		l.customConsole.Store(false)
		l.console.Store(consoleHolder{sink: consoleFromConfig(l.getConfig())})
		return
	}
	l.customConsole.Store(true)
	l.console.Store(consoleHolder{sink: sink})
}

// Shutdown closes both sink files. Safe to call multiple times. A write
// issued after shutdown lazily reopens its sink, matching the original
// terminate semantics; orderly teardown simply stops logging first.
func (l *Logger) Shutdown() error {
	l.initMu.Lock()
	defer l.initMu.Unlock()

	err := l.messages.close()
	return combineErrors(err, l.diagnostics.close())
}

// MessageSinkHealthy reports whether the message log file is currently open.
// Advisory only; an unhealthy sink drops writes silently.
func (l *Logger) MessageSinkHealthy() bool {
	return l.messages.healthy()
}

// DiagnosticsSinkHealthy reports whether the diagnostics file is currently open
func (l *Logger) DiagnosticsSinkHealthy() bool {
	return l.diagnostics.healthy()
}

// Depth returns the current process-wide open-scope count
func (l *Logger) Depth() int64 {
	return l.scopeDepth.Load()
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

// getConsole returns the active console backend
func (l *Logger) getConsole() ConsoleSink {
	return l.console.Load().(consoleHolder).sink
}

// consoleFromConfig builds the console backend selected by cfg
func consoleFromConfig(cfg *Config) ConsoleSink {
	var w *os.File
	if cfg.ConsoleTarget == "stderr" {
		w = os.Stderr
	} else {
		w = os.Stdout
	}
	if cfg.ConsoleColor {
		return NewColorConsole(w)
	}
	return NewWriterConsole(w)
}
