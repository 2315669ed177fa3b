package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/dfdlayout/pkg/cache"
	"github.com/matzehuels/dfdlayout/pkg/dag/transform"
	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
	"github.com/matzehuels/dfdlayout/pkg/layout"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Layout.Options() != layout.DefaultOptions() {
		t.Errorf("default layout = %+v, want layout.DefaultOptions()", cfg.Layout.Options())
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("default backend = %q", cfg.Cache.Backend)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[layout]
vertical_spacing = 120
cycle_policy = "break"
collation = "fr"

[cache]
backend = "redis"
redis_addr = "cache:6379"
prefix = "v2:"

[server]
addr = ":9000"
read_timeout = "3s"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Layout.VerticalSpacing != 120 || cfg.Layout.HorizontalSpacing != layout.DefaultHorizontalSpacing {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.CyclePolicy != transform.CycleBreak || cfg.Layout.Collation != "fr" {
		t.Errorf("cycle policy / collation = %v / %q", cfg.Layout.CyclePolicy, cfg.Layout.Collation)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout != Default().Server.WriteTimeout {
		t.Error("unset server keys should keep defaults")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code apperr.Code
	}{
		{"unknown key", "[layout]\nhorizontal = 3\n", apperr.ErrCodeInvalidOption},
		{"bad policy", "[layout]\ncycle_policy = \"ignore\"\n", ""},
		{"syntax", "[layout\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if tt.code != "" && !apperr.Is(err, tt.code) {
				t.Errorf("Parse() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"none backend", func(c *Config) { c.Cache.Backend = BackendNone }, true},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, false},
		{"redis without addr", func(c *Config) { c.Cache.Backend = BackendRedis; c.Cache.RedisAddr = "" }, false},
		{"mongo without uri", func(c *Config) { c.Cache.Backend = BackendMongo }, false},
		{"zero spacing", func(c *Config) { c.Layout.VerticalSpacing = 0 }, false},
		{"bad collation", func(c *Config) { c.Layout.Collation = "!!" }, false},
		{"negative body limit", func(c *Config) { c.Server.MaxBodyBytes = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
			if err != nil && !apperr.Is(err, apperr.ErrCodeInvalidOption) {
				t.Errorf("Validate() code = %s", apperr.GetCode(err))
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvRedisAddr: "redis.internal:6380",
		EnvAddr:      "9090",
		EnvCache:     BackendNone,
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Cache.RedisAddr != "redis.internal:6380" {
		t.Errorf("RedisAddr = %q", cfg.Cache.RedisAddr)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("bare port should become :9090, got %q", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("Backend = %q", cfg.Cache.Backend)
	}

	cfg.ApplyEnv(func(k string) string {
		if k == EnvAddr {
			return "127.0.0.1:7000"
		}
		return ""
	})
	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Errorf("host:port should be kept, got %q", cfg.Server.Addr)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvCache, "")
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvRedisAddr, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without a file = %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !apperr.Is(err, apperr.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}

	path := filepath.Join(t.TempDir(), "dfdlayout.toml")
	if err := os.WriteFile(path, []byte("[layout]\ngap_ratio = 0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAddr, ":1234")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load(%s) = %v", path, err)
	}
	if cfg.Layout.GapRatio != 0.5 || cfg.Server.Addr != ":1234" {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")
	if got := DefaultPath(); got != filepath.Join("/xdg/config", "dfdlayout", "config.toml") {
		t.Errorf("DefaultPath() = %q", got)
	}
	if got := DefaultCacheDir(); got != filepath.Join("/xdg/cache", "dfdlayout") {
		t.Errorf("DefaultCacheDir() = %q", got)
	}
}

func TestCacheOpen(t *testing.T) {
	ctx := context.Background()

	c, err := CacheConfig{Backend: BackendFile, Dir: t.TempDir()}.Open(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("file backend = %T", c)
	}

	for _, cc := range []CacheConfig{{Backend: BackendNone}, {Backend: BackendRedis, RedisAddr: "127.0.0.1:1"}} {
		c, err := cc.Open(ctx, cc.Backend == BackendRedis)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := c.(cache.NullCache); !ok {
			t.Errorf("%s backend = %T, want NullCache", cc.Backend, c)
		}
	}
}

func TestCacheKeyer(t *testing.T) {
	opts := cache.LayoutKeyOpts{GapRatio: 0.9}
	plain := CacheConfig{}.Keyer().LayoutKey("h", opts)
	scoped := CacheConfig{Prefix: "v2:"}.Keyer().LayoutKey("h", opts)
	if scoped != "v2:"+plain {
		t.Errorf("scoped key = %q, plain = %q", scoped, plain)
	}
}
