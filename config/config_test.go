package config

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadJSONAndYAML(t *testing.T) {
	for _, name := range []string{"cfg.json", "cfg.yaml"} {
		path := filepath.Join(t.TempDir(), "nested", name)
		cfg := DefaultConfig()
		cfg.Scan.Angles = []int{0, 180}
		cfg.Live.Source = "dir"
		cfg.Live.Dir = "/tmp/frames"
		require.NoError(t, cfg.Save(path), name)

		got, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, []int{0, 180}, got.Scan.Angles, name)
		assert.Equal(t, "dir", got.Live.Source, name)
		assert.Equal(t, "/tmp/frames", got.Live.Dir, name)
	}
}

func TestLoadPartialYAMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yml")
	require.NoError(t, os.WriteFile(path, []byte("live:\n  source: snapshot\n  url: http://cam/shot.jpg\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "snapshot", cfg.Live.Source)
	assert.Equal(t, 400, cfg.Scan.MinDim)
	assert.Len(t, cfg.Scan.Profiles, 4)
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidateClamps(t *testing.T) {
	cfg := &Config{
		LogLevel: "LOUD",
		Scan: ScanConfig{
			MinDim:     -1,
			MaxDim:     10,
			Angles:     []int{45, 90},
			Profiles:   []ProfileConfig{{Contrast: 0}},
			Binarizers: []string{"otsu"},
		},
		Live:   LiveConfig{Source: "camera", Backend: "magic", SelectionW: -5},
		Lookup: LookupConfig{},
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 400, cfg.Scan.MinDim)
	assert.Equal(t, 2000, cfg.Scan.MaxDim)
	assert.Equal(t, []int{90}, cfg.Scan.Angles)
	assert.Equal(t, DefaultProfiles(), cfg.Scan.Profiles)
	assert.Equal(t, []string{"hybrid", "global_histogram"}, cfg.Scan.Binarizers)
	assert.Equal(t, "screen", cfg.Live.Source)
	assert.Equal(t, "zxing", cfg.Live.Backend)
	assert.Equal(t, "https://world.openfoodfacts.org", cfg.Lookup.BaseURL)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestValidateRejectsBadBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lookup.BaseURL = "ftp://example.org"
	assert.Error(t, cfg.Validate())
}

func TestSelection(t *testing.T) {
	l := LiveConfig{SelectionX: 10, SelectionY: 20, SelectionW: 30, SelectionH: 40}
	assert.Equal(t, image.Rect(10, 20, 40, 60), l.Selection())
	assert.True(t, LiveConfig{}.Selection().Empty())
}
