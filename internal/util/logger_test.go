package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" WARNING "))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNewLoggerCreatesLogDirectory(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nested", "segcraft.log")

	logger, err := NewLogger("debug", logFile)
	require.NoError(t, err)
	logger.Info("hello")
	_ = logger.Sync()

	assert.FileExists(t, logFile)
}
