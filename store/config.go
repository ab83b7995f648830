package store

import (
	"strings"

	"github.com/wippyai/dataset/errors"
)

// Policy selects the backing variant for a new store.
type Policy uint8

const (
	PolicyHeap Policy = iota
	PolicyMapped
)

func (p Policy) String() string {
	switch p {
	case PolicyHeap:
		return "heap"
	case PolicyMapped:
		return "mapped"
	default:
		return "unknown"
	}
}

// ParsePolicy accepts "heap" or "mapped" (also "mmap").
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "heap":
		return PolicyHeap, nil
	case "mapped", "mmap":
		return PolicyMapped, nil
	}
	return PolicyHeap, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Op("ParsePolicy").
		Value(s).
		Detail("unknown backing policy %q", s).
		Build()
}

const (
	// DefaultScratchDir hosts mapped backing files, relative to the
	// working directory.
	DefaultScratchDir = ".dataset"

	// DefaultFilePrefix starts every mapped backing file name.
	DefaultFilePrefix = "mmap_"
)

// Config controls where mapped stores live and how large heap stores may grow.
type Config struct {
	ScratchDir string
	FilePrefix string

	// MaxHeapBytes bounds a single heap store. Zero means no bound.
	MaxHeapBytes int64
}

// DefaultConfig returns the configuration used by the package-level provider.
func DefaultConfig() Config {
	return Config{
		ScratchDir: DefaultScratchDir,
		FilePrefix: DefaultFilePrefix,
	}
}

func (c Config) withDefaults() Config {
	if c.ScratchDir == "" {
		c.ScratchDir = DefaultScratchDir
	}
	if c.FilePrefix == "" {
		c.FilePrefix = DefaultFilePrefix
	}
	return c
}
