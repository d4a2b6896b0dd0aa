package googlefonts

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/buildinfo"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/cache"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/fonts"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/integrations"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/observability"
)

// DefaultBaseURL is the Google Fonts Developer API host.
const DefaultBaseURL = "https://www.googleapis.com"

// Client provides access to the Google Fonts webfonts catalog.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	apiKey  string
	logger  *log.Logger

	loaded atomic.Pointer[fonts.Catalog]
	group  singleflight.Group
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL points the client at a different API host, typically a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithLogger sets the logger used to report catalog failures.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithKeyer replaces the cache key scheme, typically with a [cache.ScopedKeyer].
func WithKeyer(k cache.Keyer) Option {
	return func(c *Client) { c.SetKeyer(k) }
}

// NewClient creates a catalog client. apiKey may be empty; the request is
// still made and the API decides whether to honor it. backend persists the
// decoded catalog for ttl; pass nil to keep it in process memory only.
func NewClient(backend cache.Cache, ttl time.Duration, apiKey string, opts ...Option) *Client {
	c := &Client{
		Client: integrations.NewClient(backend, "googlefonts:", ttl, map[string]string{
			"User-Agent": buildinfo.UserAgent(),
		}),
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the font catalog, requesting it on the first successful call
// only. On failure the error is logged and an empty catalog is returned; the
// next call tries again.
func (c *Client) Fetch(ctx context.Context) fonts.Catalog {
	catalog, err := c.Load(ctx)
	if err != nil {
		c.logger.Error("Error fetching Google Fonts", "error", err)
		return fonts.Catalog{}
	}
	return catalog
}

// Load is like [Client.Fetch] but reports the failure instead of logging it.
func (c *Client) Load(ctx context.Context) (fonts.Catalog, error) {
	if p := c.loaded.Load(); p != nil {
		return *p, nil
	}

	// The shared fetch outlives any single caller; each caller still stops
	// waiting when its own context ends.
	ch := c.group.DoChan("catalog", func() (any, error) {
		if p := c.loaded.Load(); p != nil {
			return *p, nil
		}
		fetchCtx := context.WithoutCancel(ctx)
		start := time.Now()
		catalog, err := c.load(fetchCtx)
		observability.Pipeline().OnCatalogFetch(fetchCtx, len(catalog), time.Since(start), err)
		if err != nil {
			return nil, err
		}
		c.loaded.CompareAndSwap(nil, &catalog)
		return *c.loaded.Load(), nil
	})
	select {
	case <-ctx.Done():
		return fonts.Catalog{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return fonts.Catalog{}, res.Err
		}
		return res.Val.(fonts.Catalog), nil
	}
}

// Loaded reports whether a catalog has been stored.
func (c *Client) Loaded() bool {
	return c.loaded.Load() != nil
}

func (c *Client) load(ctx context.Context) (fonts.Catalog, error) {
	var catalog fonts.Catalog
	err := c.Cached(ctx, "webfonts:alpha", false, &catalog, func() error {
		return c.fetch(ctx, &catalog)
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

func (c *Client) fetch(ctx context.Context, catalog *fonts.Catalog) error {
	q := url.Values{}
	q.Set("sort", "alpha")
	q.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s/webfonts/v1/webfonts?%s", c.baseURL, q.Encode())

	var data apiResponse
	if err := c.Get(ctx, endpoint, &data); err != nil {
		return fmt.Errorf("google fonts catalog: %w", err)
	}

	out := make(fonts.Catalog, 0, len(data.Items))
	for _, item := range data.Items {
		if item.Family == "" {
			continue
		}
		out = append(out, fonts.Family{
			Name:     item.Family,
			Variants: item.Variants,
			Category: item.Category,
			Subsets:  item.Subsets,
			Version:  item.Version,
		})
	}
	*catalog = out
	return nil
}

type apiResponse struct {
	Kind  string    `json:"kind"`
	Items []apiItem `json:"items"`
}

type apiItem struct {
	Family   string   `json:"family"`
	Variants []string `json:"variants"`
	Subsets  []string `json:"subsets"`
	Version  string   `json:"version"`
	Category string   `json:"category"`
}
