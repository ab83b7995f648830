// Package config loads the YAML configuration shared by the dsarr command
// and anything else that wires up a store provider and logger.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/dataset/errors"
	"github.com/wippyai/dataset/store"
)

// Environment variables that override file settings.
const (
	EnvScratchDir   = "DATASET_SCRATCH_DIR"
	EnvBacking      = "DATASET_BACKING"
	EnvLogLevel     = "DATASET_LOG_LEVEL"
	EnvMaxHeapBytes = "DATASET_MAX_HEAP_BYTES"
)

// Config holds all settings.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig configures array backing.
type StoreConfig struct {
	ScratchDir   string `yaml:"scratch_dir"`
	FilePrefix   string `yaml:"file_prefix"`
	Backing      string `yaml:"backing"` // heap, mapped
	MaxHeapBytes int64  `yaml:"max_heap_bytes"`
}

// LoggingConfig configures the zap logger built by NewLogger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			ScratchDir: store.DefaultScratchDir,
			FilePrefix: store.DefaultFilePrefix,
			Backing:    store.PolicyHeap.String(),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, errors.IO(errors.PhaseConfig, "Load", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.New(errors.PhaseConfig, errors.KindInvalidData).
					Op("Load").
					Path(path).
					Cause(err).
					Detail("failed to parse config").
					Build()
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.IO(errors.PhaseConfig, "Save", path, err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.IO(errors.PhaseConfig, "Save", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if dir := os.Getenv(EnvScratchDir); dir != "" {
		c.Store.ScratchDir = dir
	}
	if b := os.Getenv(EnvBacking); b != "" {
		c.Store.Backing = b
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Logging.Level = lvl
	}
	if v := os.Getenv(EnvMaxHeapBytes); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Op("Load").
				Value(v).
				Cause(err).
				Detail("%s must be an integer", EnvMaxHeapBytes).
				Build()
		}
		c.Store.MaxHeapBytes = n
	}
	return nil
}

// Validate checks every field that has a closed set of values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.ScratchDir) == "" {
		return errors.InvalidInput(errors.PhaseConfig, "store.scratch_dir must not be empty")
	}
	if strings.ContainsRune(c.Store.FilePrefix, filepath.Separator) {
		return errors.InvalidInput(errors.PhaseConfig, "store.file_prefix must not contain a path separator")
	}
	if c.Store.MaxHeapBytes < 0 {
		return errors.InvalidInput(errors.PhaseConfig, "store.max_heap_bytes must not be negative")
	}
	if _, err := store.ParsePolicy(c.Store.Backing); err != nil {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Op("Validate").
			Value(c.Store.Backing).
			Cause(err).
			Detail("invalid store.backing %q (valid: heap, mapped)", c.Store.Backing).
			Build()
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Op("Validate").
			Value(c.Logging.Level).
			Cause(err).
			Detail("invalid logging.level %q", c.Logging.Level).
			Build()
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return errors.InvalidInput(errors.PhaseConfig, "logging.format must be console or json")
	}
	return nil
}

// StoreConfig returns the store provider configuration.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		ScratchDir:   c.Store.ScratchDir,
		FilePrefix:   c.Store.FilePrefix,
		MaxHeapBytes: c.Store.MaxHeapBytes,
	}
}

// Policy returns the configured default backing. Validate has accepted it.
func (c *Config) Policy() store.Policy {
	p, _ := store.ParsePolicy(c.Store.Backing)
	return p
}

// NewLogger builds a zap logger writing to stderr at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "invalid logging.level")
	}

	zc := zap.NewDevelopmentConfig()
	if c.Logging.Format == "json" {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
