package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickabout/kickabout-cli/internal/errors"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  level,
		Format: format,
		Output: NewOutput(&buf),
	})
	return logger, &buf
}

func TestLoggerLevels(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)

	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestLoggerWithAttributes(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	logger.With("event_id", "e1").Info("joined event")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "e1", entry["event_id"])
	assert.Equal(t, "joined event", entry["msg"])
}

func TestWithErrorClientError(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	err := errors.NewNetworkFailureError(fmt.Errorf("connection refused"))
	logger.WithError(err).Info("load failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "NET-001", entry["error_code"])
	assert.Equal(t, "connection refused", entry["cause"])
}

func TestWithErrorNil(t *testing.T) {
	logger, _ := newBufferLogger(LevelInfo, FormatText)
	assert.Equal(t, logger, logger.WithError(nil))
}

func TestLogError(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	logger.LogError(errors.NewAuthRequiredError())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "AUTH-001", entry["error_code"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatText, ParseFormat("console"))
	assert.Equal(t, FormatJSON, ParseFormat("anything"))
}

func TestDefaultLoggerLazyInit(t *testing.T) {
	SetDefaultLogger(nil)
	logger := DefaultLogger()
	require.NotNil(t, logger)
	assert.Equal(t, logger, DefaultLogger())
}
