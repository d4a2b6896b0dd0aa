// Package cli implements the fontnode command-line interface.
//
// This package provides commands for rendering Google Fonts text to PNG,
// mask and tensor files, browsing the font catalog, describing the node
// definitions and hosting them over HTTP. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Render text in a Google Font
//   - fonts: List or interactively pick catalog families
//   - nodes: Describe the node definitions and their parameters
//   - serve: Host the nodes over HTTP
//   - cache: Manage the catalog and render cache
//
// # Configuration
//
// Settings are read from ~/.config/fontnode/config.toml and can be
// overridden with FONTNODE_* environment variables. The API key is read
// from GOOGLE_FONTS_API_KEY, which may be kept in a .env file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/cache"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/integrations/googlefonts"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/pipeline"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/raster"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/raster/chrome"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "fontnode"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded by the root command before any subcommand runs.
	Config *Config

	configFile string
	envDir     string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
		envDir: ".",
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// openCache opens the configured cache backend.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == backendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == backendRedis {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("No cache directory; caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// keyer returns the cache key scheme, scoped when the config names a scope.
func (c *CLI) keyer() cache.Keyer {
	if scope := c.Config.Cache.Scope; scope != "" {
		return cache.NewScopedKeyer(nil, scope+":")
	}
	return cache.NewDefaultKeyer()
}

// newCatalog creates the Google Fonts client backed by store.
func (c *CLI) newCatalog(store cache.Cache) *googlefonts.Client {
	return googlefonts.NewClient(store, c.Config.Cache.TTL.Duration, apiKey(),
		googlefonts.WithLogger(c.Logger),
		googlefonts.WithKeyer(c.keyer()))
}

// newRasterizer creates a rasterizer driving a local headless Chrome.
func (c *CLI) newRasterizer() *raster.Rasterizer {
	engine := &chrome.Engine{
		ExecPath:  c.Config.Chrome.Path,
		NoSandbox: c.Config.Chrome.NoSandbox,
	}
	r := raster.New(engine, c.Logger)
	r.SettleDelay = c.Config.Chrome.SettleDelay.Duration
	return r
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(c.newCatalog(store), c.newRasterizer(), store, c.keyer(), c.Logger)
	r.CacheRenders = c.Config.Cache.Renders
	return r, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/fontnode/) when none is set.
func (c *CLI) cacheDir() (string, error) {
	if c.Config != nil && c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/fontnode/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
