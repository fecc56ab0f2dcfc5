package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orngkit/internal/config"
	"github.com/matzehuels/orngkit/pkg/cache"
	"github.com/matzehuels/orngkit/pkg/observability"
	"github.com/matzehuels/orngkit/pkg/pipeline"
)

// appName is used for directories and display.
const appName = "orngkit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is bound to the persistent --config flag.
	configPath string
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug level also routes pipeline,
// cache and translation events to the log.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetTranslationHooks(hooks)
	}
}

// loadConfig reads the layered configuration, letting the explicitly set
// flags of cmd override everything else.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, used, err := config.Load(c.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if used != "" {
		c.Logger.Debug("loaded config", "file", used)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, error) {
	store, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, cfg.Cache.Prefix), c.Logger)
	runner.TTL = cfg.Cache.TTL
	return runner, nil
}

func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// cacheDir returns the configured directory or the XDG default
// (~/.cache/orngkit).
func cacheDir(cfg config.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cache.DefaultDir()
}

// parseFormats splits a comma-separated format list.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// addCacheFlags registers the flags shared by commands that use the cache.
func addCacheFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-cache", false, "disable caching")
	cmd.Flags().String("cache-dir", "", "cache directory (file backend)")
	cmd.Flags().String("redis-url", "", "redis URL (redis backend)")
	cmd.Flags().Duration("cache-ttl", 0, "lifetime of cached entries (default: 30d trees, 7d artifacts)")
	cmd.Flags().String("cache-scope", "", "key prefix separating projects that share a cache")
}
