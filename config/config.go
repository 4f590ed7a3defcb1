// Package config loads the reference host configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tadash10/wasp/wasmtypes"
)

// Storage backends.
const (
	StorageMemory  = "memory"
	StorageBadger  = "badger"
	StorageLevelDB = "leveldb"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the reference host configuration.
type Config struct {
	// ChainID is the hex encoded chain the host serves.
	ChainID string        `yaml:"chain_id"`
	Storage StorageConfig `yaml:"storage"`
	GRPC    GRPCConfig    `yaml:"grpc"`
	Metrics MetricsConfig `yaml:"metrics"`
	// ProcessInterval is the period of the request processing loop.
	ProcessInterval time.Duration `yaml:"process_interval"`
	Log             LogConfig     `yaml:"log"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	// CacheSize is the number of entries of the read cache; zero disables it.
	CacheSize int `yaml:"cache_size"`
}

type GRPCConfig struct {
	Listen string `yaml:"listen"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Listen
// disables it.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File enables a rotating log file next to stderr output.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the configuration used for absent fields.
func Default() Config {
	return Config{
		ChainID: wasmtypes.HexEncode(make([]byte, wasmtypes.ScChainIDLength)),
		Storage: StorageConfig{
			Backend:   StorageMemory,
			CacheSize: 1024,
		},
		GRPC:            GRPCConfig{Listen: "127.0.0.1:5550"},
		Metrics:         MetricsConfig{Listen: "127.0.0.1:9550"},
		ProcessInterval: 100 * time.Millisecond,
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(buf)
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// fields are rejected.
func Parse(buf []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if _, err := c.Chain(); err != nil {
		return fmt.Errorf("%w: chain_id: %v", ErrInvalidConfig, err)
	}
	switch c.Storage.Backend {
	case StorageMemory:
	case StorageBadger, StorageLevelDB:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: storage.path is required for %s", ErrInvalidConfig, c.Storage.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Storage.CacheSize < 0 {
		return fmt.Errorf("%w: negative storage.cache_size", ErrInvalidConfig)
	}
	if c.GRPC.Listen == "" {
		return fmt.Errorf("%w: grpc.listen is required", ErrInvalidConfig)
	}
	if c.ProcessInterval <= 0 {
		return fmt.Errorf("%w: process_interval must be positive", ErrInvalidConfig)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// Chain decodes ChainID.
func (c Config) Chain() (wasmtypes.ScChainID, error) {
	return wasmtypes.ChainIDFromString(c.ChainID)
}
