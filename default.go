package dlog

// Global instance for package-level functions
var defaultLogger = NewLogger()

// Default package-level functions that delegate to the default logger

// ApplyConfig applies a validated configuration to the default logger
func ApplyConfig(cfg *Config) error {
	return defaultLogger.ApplyConfig(cfg)
}

// ApplyConfigString applies "key=value" overrides to the default logger
func ApplyConfigString(overrides ...string) error {
	return defaultLogger.ApplyConfigString(overrides...)
}

// GetConfig returns a copy of the default logger's configuration
func GetConfig() *Config {
	return defaultLogger.GetConfig()
}

// SetOutputFile redirects the default message log; takes effect on next open
func SetOutputFile(path string) error {
	return defaultLogger.ApplyConfigString("output_file=" + path)
}

// SetDiagnosticsFile redirects the default diagnostics log; takes effect on next open
func SetDiagnosticsFile(path string) error {
	return defaultLogger.ApplyConfigString("diagnostics_file=" + path)
}

// SetLogToFile sets the default file routing for new messages
func SetLogToFile(enable bool) error {
	if enable {
		return defaultLogger.ApplyConfigString("enable_file=true")
	}
	return defaultLogger.ApplyConfigString("enable_file=false")
}

// SetLogToConsole sets the default console routing for new messages
func SetLogToConsole(enable bool) error {
	if enable {
		return defaultLogger.ApplyConfigString("enable_console=true")
	}
	return defaultLogger.ApplyConfigString("enable_console=false")
}

// SetConsole replaces the default logger's console backend
func SetConsole(sink ConsoleSink) {
	defaultLogger.SetConsole(sink)
}

// NewMessage returns a message builder on the default logger
func NewMessage() *Message {
	return defaultLogger.NewMessage()
}

// NewMessageTo returns a message builder with explicit routing
func NewMessageTo(toFile, toConsole bool) *Message {
	return defaultLogger.NewMessageTo(toFile, toConsole)
}

// WithMessage runs fn with a builder and commits on every exit path
func WithMessage(fn func(m *Message)) {
	defaultLogger.WithMessage(fn)
}

// Print appends args as one message and commits immediately
func Print(args ...any) {
	defaultLogger.Print(args...)
}

// Trace starts a scope bound to the calling function on the default logger
func Trace(name ...string) *Scope {
	fn, file, line := callerIdentity(2)
	return defaultLogger.NewScope(fn, file, line, name...)
}

// NewScope starts a scope with explicit source identity on the default logger
func NewScope(fn, file string, line int, name ...string) *Scope {
	return defaultLogger.NewScope(fn, file, line, name...)
}

// DetectPreviousCrash reports whether the previous run left scopes open
func DetectPreviousCrash() bool {
	return defaultLogger.DetectPreviousCrash()
}

// Depth returns the current open-scope count of the default logger
func Depth() int64 {
	return defaultLogger.Depth()
}

// Shutdown closes the default logger's sink files
func Shutdown() error {
	return defaultLogger.Shutdown()
}
