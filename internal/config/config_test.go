package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/orngkit/pkg/errors"
	"github.com/matzehuels/orngkit/pkg/translate"
)

// chdir moves into a fresh directory so no stray orngkit.yaml is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, used, err := Load("", nil)
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, "dummy", cfg.Mode)
	assert.Equal(t, "lr", cfg.Target)
	assert.Equal(t, "average", cfg.Linkage)
	assert.Equal(t, "euclidean", cfg.Measure)
	assert.True(t, cfg.Order)
	assert.Equal(t, "image", cfg.Renderer)
	assert.Equal(t, 2.0, cfg.LineWidth)
	assert.Equal(t, BackendFile, cfg.Cache.Backend)
	assert.Equal(t, translate.ModeDummy, cfg.TranslationMode())
	assert.Equal(t, translate.TargetLR, cfg.TranslationTarget())
}

func TestLoadPrecedence(t *testing.T) {
	dir := chdir(t)
	writeFile(t, filepath.Join(dir, FileName), `
mode: auto
linkage: ward
width: 640
cache:
  backend: redis
  redis_url: redis://localhost:6379/1
  ttl: 12h
`)
	t.Setenv("ORNGKIT_LINKAGE", "complete")
	t.Setenv("ORNGKIT_CACHE_PREFIX", "survey:")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("width", 0, "")
	flags.Int("height", 0, "")
	flags.String("redis-url", "", "")
	require.NoError(t, flags.Parse([]string{"--height", "300", "--redis-url", "redis://cache:6379/2"}))

	cfg, used, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, FileName, used)
	assert.Equal(t, "auto", cfg.Mode, "file overrides defaults")
	assert.Equal(t, "complete", cfg.Linkage, "env overrides file")
	assert.Equal(t, 640, cfg.Width, "unset flags keep file values")
	assert.Equal(t, 300, cfg.Height, "set flags win")
	assert.Equal(t, "redis://cache:6379/2", cfg.Cache.RedisURL)
	assert.Equal(t, "survey:", cfg.Cache.Prefix)
	assert.Equal(t, 12*time.Hour, cfg.Cache.TTL)
}

func TestLoadNoCacheFlag(t *testing.T) {
	chdir(t)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("no-cache", false, "")
	require.NoError(t, flags.Parse([]string{"--no-cache"}))

	cfg, _, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, BackendNone, cfg.Cache.Backend)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "other.yaml")
	writeFile(t, path, "renderer: plot\nclusters: 3\n")

	cfg, used, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "plot", cfg.Renderer)

	opts := cfg.PipelineOptions()
	assert.Equal(t, "plot", opts.Renderer)
	assert.Equal(t, 3, opts.Clusters)
	assert.True(t, opts.Order)
}

func TestLoadErrors(t *testing.T) {
	dir := chdir(t)

	_, _, err := Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)

	tests := []struct {
		name    string
		content string
	}{
		{"mode", "mode: sparse\n"},
		{"target", "target: tree\n"},
		{"linkage", "linkage: median\n"},
		{"renderer", "renderer: tower\n"},
		{"backend", "cache:\n  backend: memcached\n"},
		{"redis without url", "cache:\n  backend: redis\n"},
		{"dimensions", "width: -5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			writeFile(t, path, tt.content)
			_, _, err := Load(path, nil)
			assert.Error(t, err)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "linkage", envKey("ORNGKIT_LINKAGE"))
	assert.Equal(t, "line_width", envKey("ORNGKIT_LINE_WIDTH"))
	assert.Equal(t, "cache.redis_url", envKey("ORNGKIT_CACHE_REDIS_URL"))
}
