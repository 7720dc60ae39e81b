package compat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lixenwraith/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestCompatBuilder creates a standard setup for compatibility adapter tests
func createTestCompatBuilder(t *testing.T) (*Builder, *dlog.Logger, string) {
	t.Helper()
	tmpDir := t.TempDir()
	appLogger, err := dlog.NewBuilder().
		OutputFile(filepath.Join(tmpDir, "output.log")).
		DiagnosticsFile(filepath.Join(tmpDir, "diagnostics.log")).
		EnableFile(true).
		EnableConsole(false).
		Build()
	require.NoError(t, err)

	builder := NewBuilder().WithLogger(appLogger)
	return builder, appLogger, tmpDir
}

// readLogLines reads the non-empty lines of the message log
func readLogLines(t *testing.T, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "output.log"))
	require.NoError(t, err)

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// TestCompatBuilder verifies the compatibility builder can be initialized correctly
func TestCompatBuilder(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		builder, logger, _ := createTestCompatBuilder(t)
		defer logger.Shutdown()

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.NotNil(t, gnetAdapter)
		assert.Equal(t, logger, gnetAdapter.logger)
	})

	t.Run("with config", func(t *testing.T) {
		tmpDir := t.TempDir()
		logCfg := dlog.DefaultConfig()
		logCfg.OutputFile = filepath.Join(tmpDir, "output.log")
		logCfg.DiagnosticsFile = filepath.Join(tmpDir, "diagnostics.log")
		logCfg.EnableConsole = false

		builder := NewBuilder().WithConfig(logCfg)
		fasthttpAdapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)
		assert.NotNil(t, fasthttpAdapter)

		logger1, err := builder.GetLogger()
		require.NoError(t, err)
		defer logger1.Shutdown()

		// Subsequent builds share the cached logger
		logger2, err := builder.GetLogger()
		require.NoError(t, err)
		assert.Equal(t, logger1, logger2)
	})

	t.Run("with nil logger", func(t *testing.T) {
		_, err := NewBuilder().WithLogger(nil).BuildGnet()
		assert.Error(t, err)
	})
}

// TestGnetAdapter tests the gnet adapter's logging output and format
func TestGnetAdapter(t *testing.T) {
	builder, logger, tmpDir := createTestCompatBuilder(t)
	defer logger.Shutdown()

	var fatalCalled bool
	adapter, err := builder.BuildGnet(WithFatalHandler(func(msg string) {
		fatalCalled = true
	}))
	require.NoError(t, err)

	adapter.Debugf("gnet debug id=%d", 1)
	adapter.Infof("gnet info id=%d", 2)
	adapter.Warnf("gnet warn id=%d", 3)
	adapter.Errorf("gnet error id=%d", 4)
	adapter.Fatalf("gnet fatal id=%d", 5)

	assert.True(t, fatalCalled, "fatal handler should be invoked")

	lines := readLogLines(t, tmpDir)
	require.Len(t, lines, 5)

	expected := []struct{ severity, msg string }{
		{"debug", "gnet debug id=1"},
		{"info", "gnet info id=2"},
		{"warn", "gnet warn id=3"},
		{"error", "gnet error id=4"},
		{"fatal", "gnet fatal id=5"},
	}

	for i, exp := range expected {
		assert.Contains(t, lines[i], `"gnet `+exp.severity+" "+exp.msg+`"`)
	}
}

// TestFastHTTPAdapter tests the fasthttp adapter's logging output
func TestFastHTTPAdapter(t *testing.T) {
	builder, logger, tmpDir := createTestCompatBuilder(t)
	defer logger.Shutdown()

	adapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)

	adapter.Printf("serving %s on %s", "example.com", ":8080")

	lines := readLogLines(t, tmpDir)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"fasthttp serving example.com on :8080"`)
}

// TestFastHTTPAdapterSource verifies the source tag override
func TestFastHTTPAdapterSource(t *testing.T) {
	builder, logger, tmpDir := createTestCompatBuilder(t)
	defer logger.Shutdown()

	adapter, err := builder.BuildFastHTTP(WithSource("edge"))
	require.NoError(t, err)

	adapter.Printf("request handled")

	lines := readLogLines(t, tmpDir)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"edge request handled"`)
}
