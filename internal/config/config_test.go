package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
redis:
  addr: localhost:6379
  ttl: 2h
game:
  reveal_delay: 500ms
files:
  dir: ./data
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "./data", cfg.Files.Dir)
	assert.Equal(t, 500*time.Millisecond, Duration(cfg.Game.RevealDelay, time.Second))
	assert.Equal(t, 30*time.Second, Duration(cfg.Game.DefaultTimer, 0))
	assert.Equal(t, 5, cfg.Game.AnswerBurst)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  idle_timeout: soon\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "game.idle_timeout")
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, time.Minute, Duration("", time.Minute))
	assert.Equal(t, time.Minute, Duration("garbage", time.Minute))
	assert.Equal(t, 90*time.Second, Duration("1m30s", time.Minute))
}
