package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hance08/teller/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesToFileAtLevel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "teller.log")

	logger, cleanup, err := New(config.LogConfig{Level: "WARN", File: path})
	require.NoError(t, err)

	logger.Info("hidden message")
	logger.Warn("visible message")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible message")
	assert.NotContains(t, string(data), "hidden message")
}

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()

	_, _, err := New(config.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}

func TestNew_Stderr(t *testing.T) {
	t.Parallel()

	logger, cleanup, err := New(config.LogConfig{Level: "error"})
	require.NoError(t, err)
	defer cleanup()

	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))
}
