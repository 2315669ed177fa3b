// Package config loads dfdlayout settings from a TOML file and the
// environment.
//
// Lookup order for the file: the path given with --config, else
// $XDG_CONFIG_HOME/dfdlayout/config.toml (~/.config/dfdlayout/config.toml).
// A missing default file is not an error; a missing explicit file is.
// Environment variables override the file and command-line flags override
// both.
package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dfdlayout/pkg/dag/transform"
	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
	"github.com/matzehuels/dfdlayout/pkg/layout"
)

// AppName names the config and cache directories.
const AppName = "dfdlayout"

// Environment variables read by [Config.ApplyEnv].
const (
	EnvRedisAddr = "DFDLAYOUT_REDIS_ADDR"
	EnvAddr      = "DFDLAYOUT_ADDR"
	EnvCache     = "DFDLAYOUT_CACHE"
	EnvMongoURI  = "DFDLAYOUT_MONGO_URI"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config is the full configuration file.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig mirrors layout.Options.
type LayoutConfig struct {
	HorizontalSpacing float64               `toml:"horizontal_spacing"`
	VerticalSpacing   float64               `toml:"vertical_spacing"`
	GapRatio          float64               `toml:"gap_ratio"`
	OutputLabel       string                `toml:"output_label"`
	CyclePolicy       transform.CyclePolicy `toml:"cycle_policy"`
	Collation         string                `toml:"collation"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	// Prefix namespaces cache keys, e.g. per deployment.
	Prefix string `toml:"prefix"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures `dfdlayout serve`.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	def := layout.DefaultOptions()
	return Config{
		Layout: LayoutConfig{
			HorizontalSpacing: def.HorizontalSpacing,
			VerticalSpacing:   def.VerticalSpacing,
			GapRatio:          def.GapRatio,
			OutputLabel:       def.OutputLabel,
			CyclePolicy:       def.CyclePolicy,
		},
		Cache: CacheConfig{
			Backend:   BackendFile,
			Dir:       DefaultCacheDir(),
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			MaxBodyBytes: 4 << 20,
		},
	}
}

// Options converts the layout section.
func (c LayoutConfig) Options() layout.Options {
	return layout.Options{
		HorizontalSpacing: c.HorizontalSpacing,
		VerticalSpacing:   c.VerticalSpacing,
		GapRatio:          c.GapRatio,
		OutputLabel:       c.OutputLabel,
		CyclePolicy:       c.CyclePolicy,
		Collation:         c.Collation,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(userDir("XDG_CONFIG_HOME", ".config"), AppName, "config.toml")
}

// DefaultCacheDir returns the default file cache directory.
func DefaultCacheDir() string {
	return filepath.Join(userDir("XDG_CACHE_HOME", ".cache"), AppName)
}

func userDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, fallback)
	}
	return os.TempDir()
}

// Load reads the config file at path, or the default file when path is
// empty, applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		cfg := Default()
		cfg.ApplyEnv(os.Getenv)
		return cfg, cfg.Validate()
	case errors.Is(err, fs.ErrNotExist):
		return Config{}, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config file %s", path)
	case err != nil:
		return Config{}, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "config file %s", path)
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// Parse decodes TOML on top of [Default]. Unknown keys are rejected so a
// typo does not silently fall back to a default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, apperr.New(apperr.ErrCodeInvalidOption, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := getenv(EnvMongoURI); v != "" {
		c.Cache.MongoURI = v
	}
	if v := getenv(EnvCache); v != "" {
		c.Cache.Backend = v
	}
	if v := getenv(EnvAddr); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			v = ":" + v
		}
		c.Server.Addr = v
	}
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := c.Layout.Options().Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return apperr.New(apperr.ErrCodeInvalidOption, "cache backend redis requires redis_addr")
		}
	case BackendMongo:
		if c.Cache.MongoURI == "" {
			return apperr.New(apperr.ErrCodeInvalidOption, "cache backend mongo requires mongo_uri")
		}
	default:
		return apperr.New(apperr.ErrCodeInvalidOption, "unknown cache backend %q (must be one of: file, redis, mongo, none)", c.Cache.Backend)
	}
	if c.Server.MaxBodyBytes < 0 {
		return apperr.New(apperr.ErrCodeInvalidOption, "max_body_bytes must not be negative")
	}
	return nil
}
