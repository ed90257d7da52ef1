package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelWarn, cfg.Level)
	assert.False(t, cfg.JSON)
	assert.Empty(t, cfg.File)
}

func TestDebugConfig(t *testing.T) {
	cfg := DebugConfig()
	assert.Equal(t, slog.LevelDebug, cfg.Level)
	assert.True(t, cfg.JSON)
	assert.True(t, cfg.AddSource)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestInit(t *testing.T) {
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	t.Run("text_output", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Init(Config{Level: slog.LevelInfo, Output: &buf}))

		Info("alert sent", KeyCount, 2)
		assert.Contains(t, buf.String(), "alert sent")
		assert.Contains(t, buf.String(), "count=2")
	})

	t.Run("json_output", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Init(Config{Level: slog.LevelDebug, JSON: true, Output: &buf}))
		assert.True(t, Debug)

		DebugLog("checking", KeyTransport, "mqtt")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "mqtt", entry[KeyTransport])
	})

	t.Run("level_filters", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Init(Config{Level: slog.LevelWarn, Output: &buf}))

		Info("hidden")
		Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestInitRotatingFile(t *testing.T) {
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	path := filepath.Join(t.TempDir(), "logs", "monitor.log")
	require.NoError(t, Init(Config{Level: slog.LevelInfo, File: path, MaxSizeMB: 1}))

	Info("monitor started")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "monitor started")
}

// =============================================================================
// Context Tests
// =============================================================================

func TestGenerateRequestID(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))

	ctx := WithRequestID(context.Background(), "abc123")
	assert.Equal(t, "abc123", RequestIDFromContext(ctx))

	generated := NewRequestContext(nil)
	assert.Len(t, RequestIDFromContext(generated), 8)
}

func TestLoggerFromContext(t *testing.T) {
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: slog.LevelInfo, Output: &buf}))

	ctx := WithRequestID(context.Background(), "req-1")
	InfoContext(ctx, "toggled")
	assert.Contains(t, buf.String(), "request_id=req-1")
}

// =============================================================================
// Masking Tests
// =============================================================================

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "+155***4567", MaskPhone("+15551234567"))
	assert.Equal(t, "911", MaskPhone("911"))
	assert.Equal(t, "", MaskPhone(""))
}

func TestMaskPhones(t *testing.T) {
	out := MaskPhones([]string{"+15551234567", "911"})
	assert.Equal(t, []string{"+155***4567", "911"}, out)
}

func TestMaskArgs(t *testing.T) {
	args := []any{KeyPhone, "+15551234567", "api_token", "s3cret", KeyCount, 3}
	masked := MaskArgs(args)

	assert.Equal(t, "+155***4567", masked[1])
	assert.Equal(t, "******", masked[3])
	assert.Equal(t, 3, masked[5])
	assert.Equal(t, "+15551234567", args[1], "input must not be modified")
}

func TestIsSensitiveField(t *testing.T) {
	assert.True(t, IsSensitiveField("token"))
	assert.True(t, IsSensitiveField("MQTT_PASSWORD"))
	assert.False(t, IsSensitiveField("name"))
}
