package dlog

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
)

// Scope records entry and exit of a function or named region in the
// diagnostics file. Construction writes a start event and raises the
// process-wide depth counter; End writes the matching end event and lowers
// it. The depth embedded in each event is what the next process start parses
// to decide whether this run died with scopes still open.
//
// Typical use:
//
//	defer l.Trace().End()
//
// or with a custom label:
//
//	s := l.Trace("load")
//	defer s.End()
//	...
//	s.Mark("halfway")
type Scope struct {
	logger *Logger
	label  string
	file   string
	line   int // Captured for completeness, not formatted; reserved
	ended  atomic.Bool
}

// Trace starts a scope bound to the calling function. An optional name is
// appended to the function name as "func:name". The source file and line are
// captured from the call site.
func (l *Logger) Trace(name ...string) *Scope {
	fn, file, line := callerIdentity(2)
	return l.NewScope(fn, file, line, name...)
}

// NewScope starts a scope with an explicit function name, source file, and
// line number. Trace is the usual entry point; NewScope serves call sites
// that carry their own source identity.
func (l *Logger) NewScope(fn, file string, line int, name ...string) *Scope {
	label := fn
	if len(name) > 0 && name[0] != "" {
		label = fn + ":" + name[0]
	}

	s := &Scope{
		logger: l,
		label:  sanitizeLine(label),
		file:   sanitizeLine(file),
		line:   line,
	}

	// Open, increment, and record as one step under the diagnostics lock so
	// the written depth matches this scope's own transition.
	sink := l.diagnostics
	sink.mu.Lock()
	defer sink.mu.Unlock()

	sink.ensureOpenLocked()
	depth := l.scopeDepth.Add(1)
	l.writeEventLocked(s.label, phaseStart, s.file, depth)

	return s
}

// End writes the end event with the post-decrement depth. Idempotent; only
// the first call on a Scope takes effect.
func (s *Scope) End() {
	if !s.ended.CompareAndSwap(false, true) {
		return
	}

	l := s.logger
	sink := l.diagnostics
	sink.mu.Lock()
	defer sink.mu.Unlock()

	sink.ensureOpenLocked()
	depth := l.scopeDepth.Add(-1)
	if depth < 0 {
		// Unbalanced End; clamp rather than propagate a bogus depth
		l.scopeDepth.CompareAndSwap(depth, 0)
		l.internalLog("scope counter underflow on %s (depth %d)", s.label, depth)
		depth = 0
	}
	l.writeEventLocked(s.label, phaseEnd, s.file, depth)
}

// Mark writes an intermediate event with free-text msg in place of the phase,
// carrying the current depth unchanged
func (s *Scope) Mark(msg string) {
	l := s.logger
	sink := l.diagnostics
	sink.mu.Lock()
	defer sink.mu.Unlock()

	sink.ensureOpenLocked()
	l.writeEventLocked(s.label, sanitizeLine(msg), s.file, l.scopeDepth.Load())
}

// writeEventLocked appends one diagnostics event. Caller holds the
// diagnostics sink's lock. The trailing |<depth> field is a stable contract:
// crash detection parses it back on the next process start.
func (l *Logger) writeEventLocked(label, phase, file string, depth int64) {
	cfg := l.getConfig()
	line := "[" + timestamp(cfg.TimestampFormat) + "] " + label + ":" + phase +
		" " + file + " |" + strconv.FormatInt(depth, 10)
	l.diagnostics.appendLocked(line)
}

// DetectPreviousCrash reports whether the previous run left scopes open. The
// check runs at most once per process, at the first diagnostics-sink open;
// calling this forces that open if no scope has been started yet.
func (l *Logger) DetectPreviousCrash() bool {
	sink := l.diagnostics
	sink.mu.Lock()
	defer sink.mu.Unlock()

	sink.ensureOpenLocked()
	return l.crashedLastRun
}

// detectPreviousCrashLocked is the diagnostics sink's first-open hook. It
// inspects the pre-existing file before this run writes any event: a last
// line ending in |<n> with n > 0 means the prior run never unwound to depth
// zero, so the sentinel is appended ahead of the new events. Missing file,
// missing delimiter, or a malformed number all mean "no crash detected".
func (l *Logger) detectPreviousCrashLocked() {
	if l.crashChecked {
		return
	}
	l.crashChecked = true

	last := lastNonEmptyLine(l.diagnostics.path)
	idx := strings.LastIndexByte(last, '|')
	if idx < 0 {
		return
	}

	n, err := strconv.Atoi(strings.TrimSpace(last[idx+1:]))
	if err != nil || n <= 0 {
		return
	}

	l.crashedLastRun = true
	l.diagnostics.appendLocked(crashSentinel)
}

// lastNonEmptyLine returns the final non-empty line of the file at path, or
// "" if the file is missing or empty
func lastNonEmptyLine(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	end := len(data)
	for end > 0 && (data[end-1] == '\n' || data[end-1] == '\r') {
		end--
	}
	if end == 0 {
		return ""
	}

	start := bytes.LastIndexByte(data[:end], '\n')
	return string(data[start+1 : end])
}

// callerIdentity resolves the bare function name, source file base name, and
// line number skip frames above this call
func callerIdentity(skip int) (fn, file string, line int) {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "(unknown)", "(unknown)", 0
	}

	fn = "(unknown)"
	if f := runtime.FuncForPC(pc); f != nil {
		name := filepath.Base(f.Name())
		if i := strings.LastIndexByte(name, '.'); i >= 0 && i+1 < len(name) {
			name = name[i+1:]
		}
		fn = name
	}

	return fn, filepath.Base(file), line
}
