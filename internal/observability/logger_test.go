package observability

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"l14layers/internal/config"
)

func consoleConfig() config.LoggerConfig {
	return config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "layers",
		Colors:      config.ColorConfig{Info: "green", Error: "red"},
	}
}

func TestNewConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(consoleConfig(), zapcore.AddSync(&buf))
	logger.Named("paint").Info("painted scene", zap.Int("layers", 4))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, colorGreen+"INFO"+colorReset)
	assert.Contains(t, out, "layers.paint.")
	assert.Contains(t, out, "painted scene")
	assert.Contains(t, out, `"layers": 4`)
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.LoggerConfig{Level: "info", Format: "json", ServiceName: "layers"}
	logger := New(cfg, zapcore.AddSync(&buf))
	logger.Debug("hidden")
	logger.Warn("scroll clamped", zap.Float64("y", 200))
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug must be filtered at info level")

	var entry map[string]any
	require.NoError(t, jsoniter.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "layers", entry["logger"])
	assert.Equal(t, "scroll clamped", entry["msg"])
	assert.Equal(t, 200.0, entry["y"])
}

func TestBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	cfg := consoleConfig()
	cfg.Level = "loud"
	logger := New(cfg, zapcore.AddSync(&buf))
	logger.Debug("dropped")
	logger.Info("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogFileGetsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layers.log")
	cfg := consoleConfig()
	cfg.LogFile = path
	cfg.MaxSize = 1

	var console bytes.Buffer
	logger := New(cfg, zapcore.AddSync(&console))
	logger.Info("to both")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, jsoniter.Valid(bytes.TrimSpace(data)), "file line is not JSON: %s", data)
	assert.Contains(t, string(data), `"msg":"to both"`)
	assert.Contains(t, console.String(), "to both")
}

func TestInitializeRunsOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	assert.False(t, GetLogger().Core().Enabled(zapcore.ErrorLevel), "uninitialized logger is a no-op")

	var first, second bytes.Buffer
	Initialize(consoleConfig(), zapcore.AddSync(&first))
	Initialize(consoleConfig(), zapcore.AddSync(&second))
	GetLogger().Info("hello")
	Sync()

	assert.Contains(t, first.String(), "hello")
	assert.Empty(t, second.String())
}
