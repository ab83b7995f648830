package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	dserrors "github.com/wippyai/dataset/errors"
	"github.com/wippyai/dataset/store"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvScratchDir, EnvBacking, EnvLogLevel, EnvMaxHeapBytes} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
		assert.Equal(t, store.PolicyHeap, cfg.Policy())
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
store:
  scratch_dir: /tmp/scratch
  backing: mapped
  max_heap_bytes: 4096
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/scratch", cfg.Store.ScratchDir)
	assert.Equal(t, store.DefaultFilePrefix, cfg.Store.FilePrefix)
	assert.Equal(t, store.PolicyMapped, cfg.Policy())
	assert.Equal(t, "debug", cfg.Logging.Level)

	sc := cfg.StoreConfig()
	assert.Equal(t, store.Config{
		ScratchDir:   "/tmp/scratch",
		FilePrefix:   store.DefaultFilePrefix,
		MaxHeapBytes: 4096,
	}, sc)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "store:\n  scratch_dir: from-file\n")

	t.Setenv(EnvScratchDir, "from-env")
	t.Setenv(EnvBacking, "mmap")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvMaxHeapBytes, "128")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Store.ScratchDir)
	assert.Equal(t, store.PolicyMapped, cfg.Policy())
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, int64(128), cfg.Store.MaxHeapBytes)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "yaml", body: "store: [unclosed"},
		{name: "backing", body: "store:\n  backing: disk\n"},
		{name: "level", body: "logging:\n  level: loud\n"},
		{name: "format", body: "logging:\n  format: xml\n"},
		{name: "prefix", body: "store:\n  file_prefix: a/b\n"},
		{name: "heap", body: "store:\n  max_heap_bytes: -1\n"},
		{name: "env heap", body: "", env: map[string]string{EnvMaxHeapBytes: "lots"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeFile(t, tt.body))
			require.Error(t, err)

			var e *dserrors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, dserrors.PhaseConfig, e.Phase)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	cfg := DefaultConfig()
	cfg.Store.Backing = "mapped"
	cfg.Logging.Format = "json"

	path := filepath.Join(t.TempDir(), "nested", "dataset.yaml")
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestNewLogger(t *testing.T) {
	cfg := DefaultConfig()
	for _, format := range []string{"console", "json"} {
		cfg.Logging.Format = format
		l, err := cfg.NewLogger()
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	}

	cfg.Logging.Level = "nope"
	_, err := cfg.NewLogger()
	assert.Error(t, err)
}
