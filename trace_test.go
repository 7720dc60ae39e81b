package dlog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eventDepth parses the |<depth> suffix of a diagnostics line
func eventDepth(t *testing.T, line string) int {
	t.Helper()
	idx := strings.LastIndexByte(line, '|')
	require.GreaterOrEqual(t, idx, 0, "no depth delimiter in line: %s", line)
	n, err := strconv.Atoi(line[idx+1:])
	require.NoError(t, err, "bad depth in line: %s", line)
	return n
}

// TestScopeRoundTrip verifies the two-line start/end sequence of one scope
func TestScopeRoundTrip(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	logger.NewScope("f", "a.cpp", 12).End()

	lines := readLines(t, filepath.Join(tmpDir, "diagnostics.log"))
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "f:start...")
	assert.Contains(t, lines[0], "a.cpp")
	assert.Equal(t, 1, eventDepth(t, lines[0]))

	assert.Contains(t, lines[1], "f:end!")
	assert.Contains(t, lines[1], "a.cpp")
	assert.Equal(t, 0, eventDepth(t, lines[1]))
}

// TestScopeEventFormat verifies the full event line shape
func TestScopeEventFormat(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	logger.NewScope("load", "store.go", 42, "warmup").End()

	lines := readLines(t, filepath.Join(tmpDir, "diagnostics.log"))
	require.Len(t, lines, 2)

	start := regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] load:warmup:start\.\.\. store\.go \|1$`)
	end := regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] load:warmup:end! store\.go \|0$`)
	assert.Regexp(t, start, lines[0])
	assert.Regexp(t, end, lines[1])
}

// TestScopeNesting verifies depth sequences 1..N on entry and N-1..0 on unwind
func TestScopeNesting(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	const n = 5
	scopes := make([]*Scope, 0, n)
	for i := 0; i < n; i++ {
		scopes = append(scopes, logger.NewScope(fmt.Sprintf("level%d", i), "nest.go", i))
	}
	assert.Equal(t, int64(n), logger.Depth())

	for i := n - 1; i >= 0; i-- {
		scopes[i].End()
	}
	assert.Equal(t, int64(0), logger.Depth())

	lines := readLines(t, filepath.Join(tmpDir, "diagnostics.log"))
	require.Len(t, lines, 2*n)

	for i := 0; i < n; i++ {
		assert.Equal(t, i+1, eventDepth(t, lines[i]), "start depth at index %d", i)
	}
	for i := 0; i < n; i++ {
		assert.Equal(t, n-1-i, eventDepth(t, lines[n+i]), "end depth at index %d", i)
	}
}

// TestScopeEndIdempotent verifies repeated End calls write one event
func TestScopeEndIdempotent(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	s := logger.NewScope("once", "x.go", 1)
	s.End()
	s.End()
	s.End()

	assert.Len(t, readLines(t, filepath.Join(tmpDir, "diagnostics.log")), 2)
	assert.Equal(t, int64(0), logger.Depth())
}

// TestScopeMark verifies intermediate events keep the current depth
func TestScopeMark(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	s := logger.NewScope("job", "job.go", 7)
	s.Mark("halfway")
	s.Mark("almost done")
	s.End()

	lines := readLines(t, filepath.Join(tmpDir, "diagnostics.log"))
	require.Len(t, lines, 4)

	assert.Contains(t, lines[1], "job:halfway")
	assert.Equal(t, 1, eventDepth(t, lines[1]))
	assert.Contains(t, lines[2], "job:almost done")
	assert.Equal(t, 1, eventDepth(t, lines[2]))
}

// TestScopeMarkSanitized verifies free text cannot break the line format
func TestScopeMarkSanitized(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	s := logger.NewScope("job", "job.go", 7)
	s.Mark("rogue\nnewline")
	s.End()

	lines := readLines(t, filepath.Join(tmpDir, "diagnostics.log"))
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], `rogue\nnewline`)
	assert.Equal(t, 1, eventDepth(t, lines[1]))
}

// TestScopeUnderflow verifies unmatched End clamps instead of going negative
func TestScopeUnderflow(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	a := logger.NewScope("a", "x.go", 1)
	b := logger.NewScope("b", "x.go", 2)
	a.End()
	b.End()

	// Both scopes consumed the counter; a third, unbalanced End must not panic
	c := logger.NewScope("c", "x.go", 3)
	c.End()
	c2 := &Scope{logger: logger, label: "ghost", file: "x.go"}
	c2.End()

	assert.Equal(t, int64(0), logger.Depth())

	lines := readLines(t, filepath.Join(tmpDir, "diagnostics.log"))
	last := lines[len(lines)-1]
	assert.Equal(t, 0, eventDepth(t, last))
}

// TestTraceCallerCapture verifies Trace resolves the calling function
func TestTraceCallerCapture(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	logger.Trace().End()
	logger.Trace("custom").End()

	lines := readLines(t, filepath.Join(tmpDir, "diagnostics.log"))
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "TestTraceCallerCapture:start...")
	assert.Contains(t, lines[0], "trace_test.go")
	assert.Contains(t, lines[2], "TestTraceCallerCapture:custom:start...")
}

// TestCrashDetectionPositive verifies the sentinel lands before new events
func TestCrashDetectionPositive(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	diagPath := filepath.Join(tmpDir, "diagnostics.log")
	previous := "[2026-08-24 10:00:00] f:start... a.cpp |3\n"
	require.NoError(t, os.WriteFile(diagPath, []byte(previous), 0644))

	logger.NewScope("g", "b.go", 1).End()

	assert.True(t, logger.DetectPreviousCrash())

	lines := readLines(t, diagPath)
	require.Len(t, lines, 4)
	assert.Equal(t, crashSentinel, lines[1], "sentinel must precede this run's events")
	assert.Contains(t, lines[2], "g:start...")
	assert.Contains(t, lines[3], "g:end!")
}

// TestCrashDetectionCleanShutdown verifies depth zero means no crash
func TestCrashDetectionCleanShutdown(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	diagPath := filepath.Join(tmpDir, "diagnostics.log")
	previous := "[2026-08-24 10:00:00] f:end! a.cpp |0\n"
	require.NoError(t, os.WriteFile(diagPath, []byte(previous), 0644))

	assert.False(t, logger.DetectPreviousCrash())

	lines := readLines(t, diagPath)
	require.Len(t, lines, 1)
	assert.NotContains(t, lines[0], crashSentinel)
}

// TestCrashDetectionEdgeCases verifies malformed input means "no crash"
func TestCrashDetectionEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		content string // Empty means no pre-existing file
	}{
		{name: "missing file"},
		{name: "empty file", content: "\n\n"},
		{name: "no delimiter", content: "some unrelated line\n"},
		{name: "non-numeric suffix", content: "[ts] f:start... a.cpp |many\n"},
		{name: "negative depth", content: "[ts] f:end! a.cpp |-2\n"},
		{name: "bare delimiter", content: "line ends with |\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, tmpDir := createTestLogger(t)
			defer logger.Shutdown()

			diagPath := filepath.Join(tmpDir, "diagnostics.log")
			if tt.content != "" {
				require.NoError(t, os.WriteFile(diagPath, []byte(tt.content), 0644))
			}

			assert.False(t, logger.DetectPreviousCrash())

			for _, line := range readLines(t, diagPath) {
				assert.NotEqual(t, crashSentinel, line)
			}
		})
	}
}

// TestCrashDetectionTrailingNoise verifies the last non-empty line is parsed
func TestCrashDetectionTrailingNoise(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	diagPath := filepath.Join(tmpDir, "diagnostics.log")
	previous := "[ts] f:start... a.cpp |1\n[ts] f:checkpoint a.cpp |2\n\n\n"
	require.NoError(t, os.WriteFile(diagPath, []byte(previous), 0644))

	assert.True(t, logger.DetectPreviousCrash())
}

// TestCrashDetectionRunsOnce verifies the check is cached per process
func TestCrashDetectionRunsOnce(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	diagPath := filepath.Join(tmpDir, "diagnostics.log")
	require.NoError(t, os.WriteFile(diagPath, []byte("[ts] f:start... a.cpp |2\n"), 0644))

	assert.True(t, logger.DetectPreviousCrash())

	// Close and write again: the reopen must not re-run detection even
	// though this run's last line also ends in a non-zero depth
	logger.NewScope("h", "c.go", 1)
	require.NoError(t, logger.Shutdown())
	logger.NewScope("i", "c.go", 2)

	sentinels := 0
	for _, line := range readLines(t, diagPath) {
		if line == crashSentinel {
			sentinels++
		}
	}
	assert.Equal(t, 1, sentinels)
}

// TestScopeConcurrent verifies tracing from many goroutines stays balanced
func TestScopeConcurrent(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	const goroutines = 8
	const perGoroutine = 20

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				s := logger.NewScope(fmt.Sprintf("g%d", id), "conc.go", i)
				s.End()
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, int64(0), logger.Depth())

	lines := readLines(t, filepath.Join(tmpDir, "diagnostics.log"))
	assert.Len(t, lines, 2*goroutines*perGoroutine)

	// The final event of a fully unwound run always records depth 0
	assert.Equal(t, 0, eventDepth(t, lines[len(lines)-1]))
}
