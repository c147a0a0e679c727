package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_InvalidLevel(t *testing.T) {
	_, _, err := InitLogger(LogConfig{Level: "loud", Format: "json", Output: "stdout"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}

func TestInitLogger_File(t *testing.T) {
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	path := filepath.Join(t.TempDir(), "logs", "uniqbot.log")
	logger, closeLog, err := InitLogger(LogConfig{Level: "WARN", Format: "json", Output: "file", FilePath: path})
	require.NoError(t, err)

	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	logger.Info().Msg("dropped")
	logger.Warn().Str("user_id", "u1").Msg("kept")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")

	var event map[string]interface{}
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(data), &event))
	assert.Equal(t, "kept", event["message"])
	assert.Equal(t, "uniqbot", event["service"])
	assert.Equal(t, "u1", event["user_id"])

	require.NoError(t, closeLog())
	assert.ErrorIs(t, closeLog(), os.ErrClosed)
}

func TestInitLogger_StdoutCloseIsNoop(t *testing.T) {
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	_, closeLog, err := InitLogger(LogConfig{Level: "INFO", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	assert.NoError(t, closeLog())
	assert.NoError(t, closeLog())
}

func TestEventMessageLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	messages := NewEventMessageLog(zerolog.New(&buf))

	err := messages.Append(context.Background(), MessageEntry{
		UserID:    "2348000000001",
		Direction: DirectionIncoming,
		Text:      "hello",
		Timestamp: time.Date(2024, 10, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var event map[string]interface{}
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &event))
	assert.Equal(t, "message_log", event["component"])
	assert.Equal(t, "2348000000001", event["user_id"])
	assert.Equal(t, "incoming", event["direction"])
	assert.Equal(t, "hello", event["text"])
}

func TestMessageEntry_JSON(t *testing.T) {
	t.Parallel()

	data, err := sonic.Marshal(MessageEntry{UserID: "2348000000001", Direction: DirectionOutgoing, Text: "hi"})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, sonic.Unmarshal(data, &fields))
	assert.Equal(t, "2348000000001", fields["phone_number"])
	assert.Equal(t, "outgoing", fields["message_type"])
	assert.Equal(t, "hi", fields["message_content"])
	assert.Contains(t, fields, "timestamp")
}
