// Package config loads orngkit settings.
//
// Sources are layered, later ones winning:
//
//  1. built-in defaults
//  2. orngkit.yaml in the working directory (or the file given by --config)
//  3. ORNGKIT_* environment variables, e.g. ORNGKIT_LINKAGE=ward or
//     ORNGKIT_CACHE_REDIS_URL=redis://localhost:6379/0
//  4. command-line flags that were explicitly set
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/orngkit/pkg/cluster"
	"github.com/matzehuels/orngkit/pkg/errors"
	"github.com/matzehuels/orngkit/pkg/pipeline"
	"github.com/matzehuels/orngkit/pkg/translate"
)

// FileName is the config file looked up in the working directory.
const FileName = "orngkit.yaml"

const envPrefix = "ORNGKIT_"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds every setting the CLI reads.
type Config struct {
	Mode   string `koanf:"mode"`
	Target string `koanf:"target"`

	Linkage  string `koanf:"linkage"`
	Measure  string `koanf:"measure"`
	Order    bool   `koanf:"order"`
	Renderer string `koanf:"renderer"`

	Width     int     `koanf:"width"`
	Height    int     `koanf:"height"`
	Font      string  `koanf:"font"`
	FontSize  float64 `koanf:"font_size"`
	LineWidth float64 `koanf:"line_width"`
	Clusters  int     `koanf:"clusters"`
	LowColor  string  `koanf:"low_color"`
	HighColor string  `koanf:"high_color"`

	Cache CacheConfig `koanf:"cache"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend  string        `koanf:"backend"`
	Dir      string        `koanf:"dir"`
	RedisURL string        `koanf:"redis_url"`
	TTL      time.Duration `koanf:"ttl"`
	// Prefix namespaces keys, for several projects sharing one Redis.
	Prefix string `koanf:"prefix"`
}

func defaults() map[string]any {
	return map[string]any{
		"mode":          translate.ModeDummy.String(),
		"target":        translate.TargetLR.String(),
		"linkage":       pipeline.DefaultLinkage,
		"measure":       pipeline.DefaultMeasure,
		"order":         true,
		"renderer":      pipeline.DefaultRenderer,
		"line_width":    2.0,
		"cache.backend": BackendFile,
		"cache.ttl":     "0s",
	}
}

// flagKeys maps flag names whose config key is not the snake_case form of
// the flag name.
var flagKeys = map[string]string{
	"cache-dir":   "cache.dir",
	"redis-url":   "cache.redis_url",
	"cache-ttl":   "cache.ttl",
	"cache-scope": "cache.prefix",
}

// Load reads the configuration. path names an explicit config file; when
// empty, FileName is used if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, "", fmt.Errorf("load defaults: %w", err)
	}

	used := path
	if used == "" {
		if _, err := os.Stat(FileName); err == nil {
			used = FileName
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			if os.IsNotExist(err) {
				return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", used)
			}
			return nil, "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "read config file %s", used)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, "", fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			if f.Name == "no-cache" {
				if v, _ := flags.GetBool("no-cache"); v {
					return "cache.backend", BackendNone
				}
				return "", nil
			}
			if key, ok := flagKeys[f.Name]; ok {
				return key, posflag.FlagVal(flags, f)
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil)
		if err != nil {
			return nil, "", fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, used, nil
}

// envKey turns ORNGKIT_CACHE_REDIS_URL into cache.redis_url.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if rest, ok := strings.CutPrefix(key, "cache_"); ok {
		return "cache." + rest
	}
	return key
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	if _, err := translate.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := translate.ParseTarget(c.Target); err != nil {
		return err
	}
	if _, err := cluster.ParseLinkage(c.Linkage); err != nil {
		return err
	}
	if _, ok := pipeline.Measures[c.Measure]; !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid measure: %q", c.Measure)
	}
	if _, ok := pipeline.ValidRenderers[c.Renderer]; !ok {
		return errors.New(errors.ErrCodeInvalidRenderer, "invalid renderer: %q", c.Renderer)
	}
	if err := errors.ValidateDimensions(c.Width, c.Height); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid cache backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	return nil
}

// PipelineOptions returns the clustering and drawing settings as pipeline
// options. Input, formats and other per-run fields are left to the caller.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Linkage:   c.Linkage,
		Measure:   c.Measure,
		Order:     c.Order,
		Renderer:  c.Renderer,
		Width:     c.Width,
		Height:    c.Height,
		Font:      c.Font,
		FontSize:  c.FontSize,
		LineWidth: c.LineWidth,
		Clusters:  c.Clusters,
		LowColor:  c.LowColor,
		HighColor: c.HighColor,
	}
}

// TranslationMode returns the validated discrete-attribute mode.
func (c *Config) TranslationMode() translate.Mode {
	m, _ := translate.ParseMode(c.Mode)
	return m
}

// TranslationTarget returns the validated learner target.
func (c *Config) TranslationTarget() translate.Target {
	t, _ := translate.ParseTarget(c.Target)
	return t
}
