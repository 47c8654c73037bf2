package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "rdfq.db", cfg.Store.Path)
	assert.Equal(t, 4096, cfg.Store.CacheSize)
	assert.Equal(t, 8, cfg.Store.IdleConns)
	assert.Empty(t, cfg.Store.Context)
	assert.Equal(t, 1, cfg.Tree.Level)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse([]byte(`
store: {
	path:    "people.db"
	context: "http://example.org/g"
}
tree: level: 3
log: level: "debug"
`))
	require.NoError(t, err)

	assert.Equal(t, "people.db", cfg.Store.Path)
	assert.Equal(t, "http://example.org/g", cfg.Store.Context)
	assert.Equal(t, 4096, cfg.Store.CacheSize, "unset fields keep defaults")
	assert.Equal(t, 3, cfg.Tree.Level)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestParse_Violations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"negative level", `tree: level: -1`},
		{"zero cache", `store: cache_size: 0`},
		{"unknown format", `log: format: "xml"`},
		{"unknown field", `store: colour: "red"`},
		{"wrong type", `store: path: 42`},
		{"syntax", `store: {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			var le *LoadError
			assert.True(t, errors.As(err, &le))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.cue")
	require.NoError(t, os.WriteFile(path, []byte(`tree: level: 5`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Tree.Level)

	_, err = Load(filepath.Join(dir, "missing.cue"))
	assert.Error(t, err)
}

func TestLoad_DefaultFileMissing(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "rdfq.db", cfg.Store.Path)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "info"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "warn"}.SlogLevel())
	assert.Equal(t, slog.LevelError, LogConfig{Level: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{}.SlogLevel())
}
