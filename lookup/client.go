package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
)

const (
	DefaultBaseURL   = "https://world.openfoodfacts.org"
	DefaultCacheSize = 256
	maxBodyBytes     = 2 << 20
)

// Product is the subset of an Open Food Facts record the scanner shows.
type Product struct {
	Barcode     string `json:"barcode"`
	Name        string `json:"product_name"`
	ImageURL    string `json:"image_front_url"`
	Ingredients string `json:"ingredients_text"`
	Allergens   string `json:"allergens_from_ingredients"`
	NutriScore  string `json:"nutriscore_grade"`
}

type apiResponse struct {
	// Status is nil when the field is absent; only an explicit 0 means missing.
	Status  *int     `json:"status"`
	Product *Product `json:"product"`
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	CacheSize int
}

// Client fetches products by barcode and caches hits.
type Client struct {
	base   string
	http   *http.Client
	cache  *lru.Cache[string, Product]
	logger *slog.Logger
}

// NewClient builds a lookup client. A nil httpClient uses http.DefaultClient.
// A negative cache size disables caching.
func NewClient(httpClient *http.Client, opts Options, logger *slog.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("lookup: base url: %w", err)
	}
	c := &Client{base: base, http: httpClient, logger: logger}
	size := opts.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	if size > 0 {
		cache, err := lru.New[string, Product](size)
		if err != nil {
			return nil, fmt.Errorf("lookup: cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// ProductURL is the API endpoint for code.
func (c *Client) ProductURL(code string) string {
	return c.base + "/api/v0/product/" + url.PathEscape(code) + ".json"
}

// Lookup fetches the product for the exact barcode text. A product missing
// from the database returns barcode.ErrProductNotFound; transport, status and
// parse problems return barcode.ErrLookupFailure.
func (c *Client) Lookup(ctx context.Context, code string) (Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Product{}, barcode.ErrLookupFailure.WithMessage("empty barcode")
	}
	if c.cache != nil {
		if p, ok := c.cache.Get(code); ok {
			c.logger.Debug("lookup.cache_hit", "barcode", code)
			return p, nil
		}
	}

	u := c.ProductURL(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Product{}, barcode.ErrLookupFailure.Wrap(err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("lookup.request", "barcode", code, "error", err)
		return Product{}, barcode.ErrLookupFailure.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		serr := &HTTPStatusError{URL: u, StatusCode: resp.StatusCode}
		c.logger.Warn("lookup.status", "barcode", code, "status", resp.StatusCode)
		return Product{}, barcode.ErrLookupFailure.Wrap(serr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return Product{}, barcode.ErrLookupFailure.Wrap(err)
	}
	if len(body) > maxBodyBytes {
		return Product{}, barcode.ErrLookupFailure.WithMessage("response exceeds 2 MiB")
	}
	var api apiResponse
	if err := json.Unmarshal(body, &api); err != nil {
		c.logger.Warn("lookup.decode", "barcode", code, "error", err)
		return Product{}, barcode.ErrLookupFailure.Wrap(fmt.Errorf("decode response: %w", err))
	}
	if (api.Status != nil && *api.Status == 0) || api.Product == nil {
		c.logger.Info("lookup.not_found", "barcode", code)
		return Product{}, barcode.ErrProductNotFound.WithMessage(code)
	}

	p := *api.Product
	p.Barcode = code
	if c.cache != nil {
		c.cache.Add(code, p)
	}
	return p, nil
}

// IsNotFound reports a product missing from the database.
func IsNotFound(err error) bool { return errors.Is(err, barcode.ErrProductNotFound) }
