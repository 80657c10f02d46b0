package config

import (
	"encoding/json"
	"fmt"
	"image"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for scanning, lookup and serving.
// Fields may be loaded from a JSON or YAML file and overridden by command-line flags.
type Config struct {
	Debug                bool   `json:"debug" yaml:"debug"`
	DebugIntervalSeconds int    `json:"debug_interval_seconds" yaml:"debug_interval_seconds"`
	LogLevel             string `json:"log_level" yaml:"log_level"`

	Scan      ScanConfig      `json:"scan" yaml:"scan"`
	Native    NativeConfig    `json:"native" yaml:"native"`
	Heuristic HeuristicConfig `json:"heuristic" yaml:"heuristic"`
	Live      LiveConfig      `json:"live" yaml:"live"`
	Lookup    LookupConfig    `json:"lookup" yaml:"lookup"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}

// ScanConfig drives the decode chain and the parameter search.
type ScanConfig struct {
	MinDim     int             `json:"min_dim" yaml:"min_dim"`
	MaxDim     int             `json:"max_dim" yaml:"max_dim"`
	Angles     []int           `json:"angles" yaml:"angles"`
	Profiles   []ProfileConfig `json:"profiles" yaml:"profiles"`
	Binarizers []string        `json:"binarizers" yaml:"binarizers"`
	Formats    []string        `json:"formats" yaml:"formats"`
	// DirectTier runs one plain general-purpose decode before the search.
	DirectTier bool `json:"direct_tier" yaml:"direct_tier"`
	TryHarder  bool `json:"try_harder" yaml:"try_harder"`
}

// ProfileConfig is one contrast/brightness enhancement step.
type ProfileConfig struct {
	Name       string  `json:"name" yaml:"name"`
	Contrast   float64 `json:"contrast" yaml:"contrast"`
	Brightness int     `json:"brightness" yaml:"brightness"`
}

type NativeConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Command string `json:"command" yaml:"command"`
}

type HeuristicConfig struct {
	Enabled  bool `json:"enabled" yaml:"enabled"`
	CellSize int  `json:"cell_size" yaml:"cell_size"`
	MinCells int  `json:"min_cells" yaml:"min_cells"`
	Padding  int  `json:"padding" yaml:"padding"`
}

// LiveConfig selects the capture source for continuous scanning.
type LiveConfig struct {
	Source     string `json:"source" yaml:"source"` // screen, dir, snapshot
	Dir        string `json:"dir" yaml:"dir"`
	Loop       bool   `json:"loop" yaml:"loop"`
	URL        string `json:"url" yaml:"url"`
	IntervalMS int    `json:"interval_ms" yaml:"interval_ms"`
	// Backend decodes each frame: zxing, heuristic, native or chain.
	Backend    string `json:"backend" yaml:"backend"`
	AutoLookup bool   `json:"auto_lookup" yaml:"auto_lookup"`

	// Selection rectangle for the screen source
	SelectionX int `json:"selection_x" yaml:"selection_x"`
	SelectionY int `json:"selection_y" yaml:"selection_y"`
	SelectionW int `json:"selection_w" yaml:"selection_w"`
	SelectionH int `json:"selection_h" yaml:"selection_h"`
}

// Selection returns the configured screen region, empty when unset.
func (l LiveConfig) Selection() image.Rectangle {
	if l.SelectionW <= 0 || l.SelectionH <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(l.SelectionX, l.SelectionY, l.SelectionX+l.SelectionW, l.SelectionY+l.SelectionH)
}

type LookupConfig struct {
	BaseURL        string `json:"base_url" yaml:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"`
	CacheSize      int    `json:"cache_size" yaml:"cache_size"`
	ProxyURL       string `json:"proxy_url" yaml:"proxy_url"`
	UserAgent      string `json:"user_agent" yaml:"user_agent"`
}

type ServerConfig struct {
	Addr        string `json:"addr" yaml:"addr"`
	MaxUploadMB int    `json:"max_upload_mb" yaml:"max_upload_mb"`
}

var (
	liveSources  = []string{"screen", "dir", "snapshot"}
	liveBackends = []string{"zxing", "heuristic", "native", "chain"}
	logLevels    = []string{"debug", "info", "warn", "error"}
	binarizers   = []string{"hybrid", "global_histogram"}
)

// DefaultProfiles is the stock enhancement catalog.
func DefaultProfiles() []ProfileConfig {
	return []ProfileConfig{
		{Name: "soft", Contrast: 1.5, Brightness: 0},
		{Name: "bright", Contrast: 2.0, Brightness: 10},
		{Name: "dark", Contrast: 1.8, Brightness: -10},
		{Name: "hard", Contrast: 2.5, Brightness: 0},
	}
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:                false,
		DebugIntervalSeconds: 30,
		LogLevel:             "info",
		Scan: ScanConfig{
			MinDim:     400,
			MaxDim:     2000,
			Angles:     []int{0, 90, 180, 270},
			Profiles:   DefaultProfiles(),
			Binarizers: []string{"hybrid", "global_histogram"},
			Formats:    []string{"ean_13", "ean_8", "upc_a", "upc_e", "code_128", "code_39", "itf"},
			DirectTier: true,
			TryHarder:  true,
		},
		Native:    NativeConfig{Enabled: true, Command: "zbarimg"},
		Heuristic: HeuristicConfig{Enabled: true, CellSize: 16, MinCells: 4, Padding: 24},
		Live: LiveConfig{
			Source:     "screen",
			IntervalMS: 250,
			Backend:    "zxing",
			AutoLookup: true,
		},
		Lookup: LookupConfig{
			BaseURL:        "https://world.openfoodfacts.org",
			TimeoutSeconds: 10,
			CacheSize:      256,
		},
		Server: ServerConfig{Addr: ":8080", MaxUploadMB: 10},
	}
}

// Validate clamps/normalizes values to safe ranges. It only fails for
// values it cannot repair.
func (c *Config) Validate() error {
	d := DefaultConfig()
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if !slices.Contains(logLevels, c.LogLevel) {
		c.LogLevel = d.LogLevel
	}
	if c.DebugIntervalSeconds <= 0 {
		c.DebugIntervalSeconds = d.DebugIntervalSeconds
	}

	s := &c.Scan
	if s.MinDim <= 0 {
		s.MinDim = d.Scan.MinDim
	}
	if s.MaxDim <= 0 || s.MaxDim < s.MinDim {
		s.MaxDim = max(s.MinDim, d.Scan.MaxDim)
	}
	s.Angles = slices.DeleteFunc(s.Angles, func(a int) bool { return a%90 != 0 })
	if len(s.Angles) == 0 {
		s.Angles = d.Scan.Angles
	}
	s.Profiles = slices.DeleteFunc(s.Profiles, func(p ProfileConfig) bool { return p.Contrast <= 0 })
	if len(s.Profiles) == 0 {
		s.Profiles = d.Scan.Profiles
	}
	s.Binarizers = slices.DeleteFunc(s.Binarizers, func(b string) bool {
		return !slices.Contains(binarizers, strings.ToLower(strings.TrimSpace(b)))
	})
	if len(s.Binarizers) == 0 {
		s.Binarizers = d.Scan.Binarizers
	}
	if len(s.Formats) == 0 {
		s.Formats = d.Scan.Formats
	}

	if c.Heuristic.CellSize <= 0 {
		c.Heuristic.CellSize = d.Heuristic.CellSize
	}
	if c.Heuristic.MinCells <= 0 {
		c.Heuristic.MinCells = d.Heuristic.MinCells
	}
	if c.Heuristic.Padding < 0 {
		c.Heuristic.Padding = d.Heuristic.Padding
	}

	l := &c.Live
	if !slices.Contains(liveSources, l.Source) {
		l.Source = d.Live.Source
	}
	if !slices.Contains(liveBackends, l.Backend) {
		l.Backend = d.Live.Backend
	}
	if l.IntervalMS < 0 {
		l.IntervalMS = d.Live.IntervalMS
	}
	if l.SelectionW < 0 || l.SelectionH < 0 {
		l.SelectionW, l.SelectionH = 0, 0
	}

	if c.Lookup.TimeoutSeconds <= 0 {
		c.Lookup.TimeoutSeconds = d.Lookup.TimeoutSeconds
	}
	if c.Lookup.CacheSize == 0 {
		c.Lookup.CacheSize = d.Lookup.CacheSize
	}
	if strings.TrimSpace(c.Lookup.BaseURL) == "" {
		c.Lookup.BaseURL = d.Lookup.BaseURL
	}
	if u, err := url.Parse(c.Lookup.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("lookup.base_url must be an http(s) url, got %q", c.Lookup.BaseURL)
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = d.Server.MaxUploadMB
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads configuration from path, YAML for .yaml/.yml and JSON otherwise.
// If the file does not exist it returns DefaultConfig(). On parse error it
// returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	parsed := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, parsed)
	} else {
		err = json.Unmarshal(data, parsed)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := parsed.Validate(); err != nil {
		return cfg, err
	}
	return parsed, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

const appDir = "foodscanner"

var defaultNames = []string{"config.yaml", "config.yml", "config.json"}

// DefaultPath is where `config init` writes, under the XDG config home.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(appDir, "config.json"))
}

// FindDefault returns the first existing config file in the XDG config dirs.
func FindDefault() (string, bool) {
	for _, name := range defaultNames {
		if p, err := xdg.SearchConfigFile(filepath.Join(appDir, name)); err == nil {
			return p, true
		}
	}
	return "", false
}
