package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/go-laravel-validation/framework/config"
	"github.com/km-arc/go-laravel-validation/framework/logging"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.NewWithWriter(config.LogConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("validation failed", zap.String("unit", "user"), zap.Int("messages", 2))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "validation failed", entry["msg"])
	assert.Equal(t, "user", entry["unit"])
	assert.EqualValues(t, 2, entry["messages"])
	assert.Contains(t, entry, "time")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.NewWithWriter(config.LogConfig{Level: "DEBUG", Format: "console"}, &buf)
	require.NoError(t, err)

	log.Debug("resolved rules")
	assert.Contains(t, buf.String(), "resolved rules")
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := logging.New(config.LogConfig{Level: "loud"})
	assert.Error(t, err)

	_, err = logging.New(config.LogConfig{Level: "info", Format: "xml"})
	assert.ErrorIs(t, err, logging.ErrUnknownFormat)
}

func TestNew_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := logging.New(config.LogConfig{Level: "warn", Format: "json", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	log.Warn("presence check failed")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "presence check failed")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { logging.Nop().Info("ignored") })
}
