package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/cache"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/raster"
)

// Cache backends accepted in the [cache] section.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

var cacheBackends = []string{backendFile, backendRedis, backendNone}

// Config is the contents of config.toml.
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "12h"
//	renders = true
//
//	[chrome]
//	path = "/usr/bin/chromium"
//	no_sandbox = true
//	settle_delay = "2s"
//
//	[render]
//	output_dir = "out"
//
//	[server]
//	addr = "0.0.0.0:8190"
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Chrome ChromeConfig `toml:"chrome"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"` // file backend; empty means the XDG cache dir
	TTL           Duration `toml:"ttl"` // catalog lifetime
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Scope         string   `toml:"scope"`   // key prefix separating hosts that share a backend
	Renders       bool     `toml:"renders"` // reuse captured bitmaps for identical requests
}

// ChromeConfig configures the headless browser.
type ChromeConfig struct {
	Path        string   `toml:"path"`
	NoSandbox   bool     `toml:"no_sandbox"`
	SettleDelay Duration `toml:"settle_delay"`
}

// RenderConfig holds defaults for the render command.
type RenderConfig struct {
	OutputDir string `toml:"output_dir"`
}

// ServerConfig holds defaults for the serve command.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	MaxConcurrent int    `toml:"max_concurrent"`
}

// Duration is a time.Duration written as a Go duration string ("1.5s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func defaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend: backendFile,
			TTL:     Duration{cache.TTLCatalog},
		},
		Chrome: ChromeConfig{
			SettleDelay: Duration{raster.DefaultSettleDelay},
		},
		Render: RenderConfig{OutputDir: "."},
		Server: ServerConfig{Addr: "127.0.0.1:8190", MaxConcurrent: 2},
	}
}

// configPath returns the config file location (~/.config/fontnode/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads path on top of the defaults. A missing file is not an
// error. Environment variables are applied last.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
			}
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with FONTNODE_* variables.
func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Cache.Backend, "FONTNODE_CACHE_BACKEND")
	set(&c.Cache.Dir, "FONTNODE_CACHE_DIR")
	set(&c.Cache.RedisAddr, "FONTNODE_REDIS_ADDR")
	set(&c.Cache.RedisPassword, "FONTNODE_REDIS_PASSWORD")
	set(&c.Cache.Scope, "FONTNODE_CACHE_SCOPE")
	set(&c.Chrome.Path, "FONTNODE_CHROME_PATH")
	set(&c.Render.OutputDir, "FONTNODE_OUTPUT_DIR")
	set(&c.Server.Addr, "FONTNODE_ADDR")

	if v := getenv("FONTNODE_SETTLE_DELAY"); v != "" {
		if err := c.Chrome.SettleDelay.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("FONTNODE_SETTLE_DELAY: %w", err)
		}
	}
	if v := getenv("FONTNODE_NO_SANDBOX"); v == "1" || v == "true" {
		c.Chrome.NoSandbox = true
	}
	if v := getenv("FONTNODE_CACHE_RENDERS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FONTNODE_CACHE_RENDERS: %w", err)
		}
		c.Cache.Renders = b
	}
	return nil
}

func (c *Config) validate() error {
	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return fmt.Errorf("cache backend %q: must be one of %v", c.Cache.Backend, cacheBackends)
	}
	if c.Cache.Backend == backendRedis && c.Cache.RedisAddr == "" {
		return errors.New("cache backend redis requires redis_addr")
	}
	if c.Cache.TTL.Duration < 0 {
		return fmt.Errorf("cache ttl %s must not be negative", c.Cache.TTL)
	}
	if c.Chrome.SettleDelay.Duration < 0 {
		return fmt.Errorf("settle delay %s must not be negative", c.Chrome.SettleDelay)
	}
	if c.Server.MaxConcurrent < 1 {
		return fmt.Errorf("server max_concurrent must be at least 1, got %d", c.Server.MaxConcurrent)
	}
	return nil
}
