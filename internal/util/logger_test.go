package util

import (
	"bytes"
	"context"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level string, format LogFormat) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := &Logger{
		level:  ParseLogLevel(level),
		fields: make(map[string]interface{}),
	}
	logger.AddOutput(NewConsoleOutput(buf, format))
	return logger, buf
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger("warn", FormatText)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[WARN] shown")
}

func TestLogger_TextFieldsAreSorted(t *testing.T) {
	logger, buf := newBufferLogger("debug", FormatText)

	logger.Debug("fetch", F("session", "a.md"), F("attempt", 1))

	assert.Contains(t, buf.String(), "fetch attempt=1 session=a.md")
}

func TestLogger_JSONFormat(t *testing.T) {
	logger, buf := newBufferLogger("info", FormatJSON)

	logger.With(F("component", "loader")).Info("loaded")

	var entry LogEntry
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "loaded", entry.Message)
	assert.Equal(t, "loader", entry.Fields["component"])
}

func TestLogger_WithContextAddsTraceID(t *testing.T) {
	logger, buf := newBufferLogger("info", FormatText)

	ctx, traceID := WithTrace(context.Background())
	logger.WithContext(ctx).Info("refresh")

	assert.NotEmpty(t, traceID)
	assert.Contains(t, buf.String(), "trace_id="+traceID)
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := t.TempDir() + "/logs/app.log"

	logger, err := NewLogger("info", path, false, FormatText)
	require.NoError(t, err)
	logger.Info("to file")
	require.NoError(t, logger.Close())

	assert.FileExists(t, path)
}
