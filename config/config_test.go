package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
chain_id: "0x0101010101010101010101010101010101010101010101010101010101010101"
storage:
  backend: badger
  path: /var/lib/wasp
process_interval: 250ms
log:
  level: debug
  file: /var/log/wasp.log
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, StorageBadger, cfg.Storage.Backend)
	require.Equal(t, "/var/lib/wasp", cfg.Storage.Path)
	require.Equal(t, 1024, cfg.Storage.CacheSize, "absent fields keep their defaults")
	require.Equal(t, 250*time.Millisecond, cfg.ProcessInterval)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 3, cfg.Log.MaxBackups)

	chain, err := cfg.Chain()
	require.NoError(t, err)
	require.Equal(t, byte(1), chain[31])
}

func TestInvalid(t *testing.T) {
	for name, doc := range map[string]string{
		"chain id":     `chain_id: "0x01"`,
		"backend":      "storage:\n  backend: redis",
		"missing path": "storage:\n  backend: leveldb",
		"cache size":   "storage:\n  cache_size: -1",
		"grpc listen":  "grpc:\n  listen: \"\"",
		"interval":     "process_interval: 0s",
		"log level":    "log:\n  level: loud",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestUnknownField(t *testing.T) {
	_, err := Parse([]byte("chain: x"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
