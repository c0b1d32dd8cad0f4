package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/vibetrack/internal/config"
)

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "vibetrack.log")

	logger, closer, err := New(config.LoggingConfig{Level: "warn", Format: "json", File: path, MaxSizeMB: 1}, false)
	require.NoError(t, err)

	logger.Info().Msg("dropped")
	logger.Warn().Str("component", "timer").Msg("Pointer write failed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"component":"timer"`)
	assert.Contains(t, string(data), `"level":"warn"`)
}

func TestNew_Stderr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unused.log")

	logger, closer, err := New(config.LoggingConfig{Level: "debug", Format: "text", File: path}, true)
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	assert.NoError(t, closer.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
