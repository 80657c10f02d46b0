package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Deepayan-S/FoodScanner/config"
	"github.com/Deepayan-S/FoodScanner/decoder"
	"github.com/Deepayan-S/FoodScanner/domain/barcode"
	"github.com/Deepayan-S/FoodScanner/domain/capture"
	"github.com/Deepayan-S/FoodScanner/domain/search"
	"github.com/Deepayan-S/FoodScanner/httpx"
	"github.com/Deepayan-S/FoodScanner/lookup"
)

// Container assembles backends, services and orchestrators from a Config.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	HTTP   *http.Client
	Lookup *lookup.Client

	ZXing     *decoder.ZXing
	Native    *decoder.Native
	Heuristic *decoder.Heuristic
	Engine    *search.Engine
	Chain     *search.Chain

	Static  *Static
	Capture capture.Factory
}

// BuildContainer constructs all components. It performs no I/O beyond
// validating the configuration.
func BuildContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg, Logger: logger}

	client, err := httpx.NewClient(httpx.Options{
		ProxyURL:  cfg.Lookup.ProxyURL,
		UserAgent: cfg.Lookup.UserAgent,
		Timeout:   time.Duration(cfg.Lookup.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}
	c.HTTP = client
	c.Lookup, err = lookup.NewClient(client, lookup.Options{
		BaseURL:   cfg.Lookup.BaseURL,
		CacheSize: cfg.Lookup.CacheSize,
	}, logger.With("component", "lookup"))
	if err != nil {
		return nil, fmt.Errorf("lookup client: %w", err)
	}

	formats, err := barcode.ParseFormats(cfg.Scan.Formats)
	if err != nil {
		return nil, fmt.Errorf("scan.formats: %w", err)
	}
	decLog := logger.With("component", "decoder")
	c.ZXing = decoder.NewZXing(formats, cfg.Scan.TryHarder, decLog)
	if cfg.Native.Enabled {
		c.Native = decoder.NewNative(cfg.Native.Command, decoder.NativeFormats, decLog)
	}
	if cfg.Heuristic.Enabled {
		opts := decoder.DefaultHeuristicOptions()
		opts.CellSize = cfg.Heuristic.CellSize
		opts.MinCells = cfg.Heuristic.MinCells
		opts.Padding = cfg.Heuristic.Padding
		c.Heuristic = decoder.NewHeuristic(opts, decLog)
	}

	catalog, err := CatalogFromConfig(cfg.Scan)
	if err != nil {
		return nil, err
	}
	c.Engine, err = search.NewEngine(c.ZXing, search.Options{
		Catalog: catalog,
		MinDim:  cfg.Scan.MinDim,
		MaxDim:  cfg.Scan.MaxDim,
	}, logger.With("component", "search"))
	if err != nil {
		return nil, err
	}

	tiers := make([]barcode.Backend, 0, 4)
	if c.Native != nil {
		tiers = append(tiers, c.Native)
	}
	if c.Heuristic != nil {
		tiers = append(tiers, c.Heuristic)
	}
	if cfg.Scan.DirectTier {
		tiers = append(tiers, c.ZXing)
	}
	tiers = append(tiers, c.Engine)
	c.Chain = search.NewChain(logger.With("component", "chain"), tiers...)

	c.Static = NewStatic(c.Chain, c.Lookup, logger.With("component", "static"))
	c.Capture = capture.NewFactory(CaptureOptions(cfg.Live, client), logger.With("component", "capture"))
	return c, nil
}

// CatalogFromConfig converts the scan section into a search catalog.
func CatalogFromConfig(sc config.ScanConfig) (search.Catalog, error) {
	cat := search.Catalog{Angles: append([]int(nil), sc.Angles...)}
	for _, p := range sc.Profiles {
		cat.Profiles = append(cat.Profiles, search.Profile{Name: p.Name, Contrast: p.Contrast, Brightness: p.Brightness})
	}
	for _, name := range sc.Binarizers {
		b, err := barcode.ParseBinarization(name)
		if err != nil {
			return search.Catalog{}, fmt.Errorf("scan.binarizers: %w", err)
		}
		cat.Binarizers = append(cat.Binarizers, b)
	}
	if err := cat.Validate(); err != nil {
		return search.Catalog{}, err
	}
	return cat, nil
}

// CaptureOptions maps the live section onto capture device options.
func CaptureOptions(l config.LiveConfig, client *http.Client) capture.Options {
	return capture.Options{
		Kind:      l.Source,
		Dir:       l.Dir,
		Loop:      l.Loop,
		URL:       l.URL,
		Interval:  time.Duration(l.IntervalMS) * time.Millisecond,
		Selection: l.Selection(),
		Client:    client,
	}
}

// LiveBackend returns the single backend used per frame while live
// scanning. Frames never go through the parameter search unless the
// chain is selected explicitly.
func (c *Container) LiveBackend() barcode.Backend {
	switch c.Config.Live.Backend {
	case "heuristic":
		if c.Heuristic != nil {
			return c.Heuristic
		}
	case "native":
		if c.Native != nil {
			return c.Native
		}
	case "chain":
		return c.Chain
	}
	return c.ZXing
}

// NewLive builds a live orchestrator over the configured capture source.
func (c *Container) NewLive() *Live {
	var lk ProductLookup
	if c.Config.Live.AutoLookup {
		lk = c.Lookup
	}
	return NewLive(c.Capture, c.LiveBackend(), lk, c.Logger.With("component", "live"))
}
