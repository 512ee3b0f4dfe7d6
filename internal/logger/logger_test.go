package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSONFile(t *testing.T) {
	previous, previousLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(previousLevel)
	})

	path := filepath.Join(t.TempDir(), "engine.log")
	require.NoError(t, Setup(LogConfig{Level: "debug", Format: "json", Output: path}))

	l := WithComponent("normalizer")
	l.Debug().Int("skipped", 2).Msg("Batch normalization completed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"normalizer"`)
	assert.Contains(t, string(data), `"skipped":2`)
}

func TestSetup_InvalidLevel(t *testing.T) {
	assert.Error(t, Setup(LogConfig{Level: "loud"}))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "stderr", cfg.Output)
	assert.Equal(t, "info", cfg.Level)
}
