package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/matzehuels/orngkit/internal/config"
	"github.com/matzehuels/orngkit/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		dir, err := cacheDir(config.CacheConfig{Dir: "/tmp/trees"})
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if dir != "/tmp/trees" {
			t.Errorf("cacheDir() = %q, want /tmp/trees", dir)
		}
	})

	t.Run("xdg default", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", xdg)

		dir, err := cacheDir(config.CacheConfig{})
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join(xdg, "orngkit"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		store, err := newCache(ctx, config.CacheConfig{Backend: config.BackendNone})
		if err != nil {
			t.Fatalf("newCache() error: %v", err)
		}
		if _, ok := store.(cache.NullCache); !ok {
			t.Errorf("newCache(none) = %T, want cache.NullCache", store)
		}
	})

	t.Run("file", func(t *testing.T) {
		dir := t.TempDir()
		store, err := newCache(ctx, config.CacheConfig{Backend: config.BackendFile, Dir: dir})
		if err != nil {
			t.Fatalf("newCache() error: %v", err)
		}
		defer store.Close()
		fc, ok := store.(*cache.FileCache)
		if !ok {
			t.Fatalf("newCache(file) = %T, want *cache.FileCache", store)
		}
		if fc.Dir() != dir {
			t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
		}
	})

	t.Run("bad redis url", func(t *testing.T) {
		store, err := newCache(ctx, config.CacheConfig{Backend: config.BackendRedis, RedisURL: "not a url"})
		if err == nil {
			t.Fatal("newCache() should reject a malformed redis URL")
		}
		if store != nil {
			t.Errorf("newCache() = %v on error, want nil", store)
		}
	})
}
