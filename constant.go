package dlog

// Default file targets
const (
	DefaultOutputFile      = "output.log"
	DefaultDiagnosticsFile = "diagnostics.log"

	// Suffix appended to the rotated-away generation of a log file
	backupSuffix = ".old"
)

// Rotation thresholds, checked only when a sink (re)opens its file
const (
	// Size multiplier for KB
	sizeMultiplier = 1024

	defaultMaxSizeKB     int64 = 5 * 1024 // message log, 5 MiB
	defaultDiagMaxSizeKB int64 = 2 * 1024 // diagnostics log, 2 MiB
)

// Scope event phases
const (
	phaseStart = "start..."
	phaseEnd   = "end!"
)

// crashSentinel is appended to the diagnostics file when the previous run is
// detected to have terminated with scopes still open.
const crashSentinel = "## CRASH POINT ##"

// defaultTimestampLayout renders local time at second resolution,
// e.g. "2026-08-25 14:03:59".
const defaultTimestampLayout = "2006-01-02 15:04:05"
