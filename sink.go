package dlog

import (
	"os"
	"sync"
)

// fileSink is a lazily opened, append-mode log file with size-capped
// single-generation rotation. Rotation is checked only when the file is
// (re)opened; a file that grows past the threshold while open is left alone
// until the next open.
//
// All operations on one sink are serialized by its mutex. The message and
// diagnostics sinks are independent instances and never contend with each
// other.
type fileSink struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	file     *os.File
	opened   bool // First open of the process already attempted

	// onFirstOpen runs with mu held, once, immediately after the first open
	// attempt and before any write. The diagnostics sink uses it for crash
	// detection.
	onFirstOpen func()
}

func newFileSink(path string, maxBytes int64) *fileSink {
	return &fileSink{
		path:     path,
		maxBytes: maxBytes,
	}
}

// configure rebinds the sink to a new path or threshold. An open handle to a
// different path is closed so the next write reopens lazily at the new one.
func (s *fileSink) configure(path string, maxBytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path == s.path && maxBytes == s.maxBytes {
		return
	}

	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}
	s.path = path
	s.maxBytes = maxBytes
	s.opened = false
}

// ensureOpenLocked opens the sink's file in append mode, rotating first if
// the existing file exceeds the threshold. Caller must hold mu. Failures are
// absorbed: the handle stays nil and writes become no-ops.
func (s *fileSink) ensureOpenLocked() {
	if s.file != nil {
		return
	}

	firstOpen := !s.opened
	rotateIfOversize(s.path, s.maxBytes)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		s.file = f
	}
	s.opened = true

	if firstOpen && s.onFirstOpen != nil {
		s.onFirstOpen()
	}
}

// appendLocked writes line plus a newline and syncs. Caller must hold mu.
// Write or sync failures drop the line silently.
func (s *fileSink) appendLocked(line string) {
	if s.file == nil {
		return
	}
	if _, err := s.file.WriteString(line + "\n"); err != nil {
		return
	}
	_ = s.file.Sync()
}

// writeLine appends one line under the sink's lock, opening lazily
func (s *fileSink) writeLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureOpenLocked()
	s.appendLocked(line)
}

// healthy reports whether the sink currently holds an open handle. Purely
// advisory; callers are not expected to alter control flow on it.
func (s *fileSink) healthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file != nil
}

// close releases the file handle. Safe to call multiple times; a later write
// reopens lazily, which re-runs the rotation check but not onFirstOpen.
func (s *fileSink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}

	var err error
	if syncErr := s.file.Sync(); syncErr != nil {
		err = fmtErrorf("failed to sync '%s' during close: %w", s.path, syncErr)
	}
	if closeErr := s.file.Close(); closeErr != nil {
		err = combineErrors(err, fmtErrorf("failed to close '%s': %w", s.path, closeErr))
	}
	s.file = nil
	return err
}

// rotateIfOversize renames path to path+".old" when the file at path exceeds
// maxBytes, discarding any previous backup. Best-effort: a failed delete or
// rename is ignored and the caller proceeds to open the original path.
func rotateIfOversize(path string, maxBytes int64) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() <= maxBytes {
		return
	}

	backup := path + backupSuffix
	if _, err := os.Stat(backup); err == nil {
		_ = os.Remove(backup)
	}
	_ = os.Rename(path, backup)
}
