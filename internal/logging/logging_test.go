package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToFile(t *testing.T) {
	defer Discard()
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)
	dir := t.TempDir()
	c, err := Setup(dir, "info")
	require.NoError(t, err)
	log.Debug().Msg("hidden")
	log.Info().Str("file", "notes.txt").Msg("opened")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"message":"opened"`)
	assert.Contains(t, lines[0], `"file":"notes.txt"`)
}

func TestSetupUnknownLevelUsesInfo(t *testing.T) {
	defer Discard()
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)
	c, err := Setup(t.TempDir(), "chatty")
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSetupMissingDirectory(t *testing.T) {
	defer Discard()
	c, err := Setup(filepath.Join(t.TempDir(), "missing"), "info")
	assert.Error(t, err)
	assert.NoError(t, c.Close())
}
