package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deepayan-S/FoodScanner/config"
	"github.com/Deepayan-S/FoodScanner/domain/barcode"
)

func TestBuildContainerDefaultTiers(t *testing.T) {
	c, err := BuildContainer(config.DefaultConfig(), quiet)
	require.NoError(t, err)
	assert.Equal(t, []string{"native", "heuristic", "zxing", "search"}, c.Chain.Tiers())
	assert.Equal(t, 32, c.Engine.Catalog().Size())
	assert.NotNil(t, c.Static)
	assert.NotNil(t, c.Capture)
	assert.Equal(t, "zxing", c.LiveBackend().Name())
}

func TestBuildContainerOptionalTiers(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Native.Enabled = false
	cfg.Heuristic.Enabled = false
	cfg.Scan.DirectTier = false
	cfg.Live.Backend = "heuristic"
	c, err := BuildContainer(cfg, quiet)
	require.NoError(t, err)
	assert.Equal(t, []string{"search"}, c.Chain.Tiers())
	// falls back to zxing when the selected backend is disabled
	assert.Equal(t, "zxing", c.LiveBackend().Name())

	cfg.Live.Backend = "chain"
	assert.Equal(t, "chain", c.LiveBackend().Name())
}

func TestBuildContainerRejectsUnknownFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scan.Formats = []string{"ean_13", "aztec_3000"}
	_, err := BuildContainer(cfg, quiet)
	assert.Error(t, err)
}

func TestCatalogFromConfig(t *testing.T) {
	sc := config.DefaultConfig().Scan
	sc.Angles = []int{0, 180}
	sc.Binarizers = []string{"global_histogram"}
	cat, err := CatalogFromConfig(sc)
	require.NoError(t, err)
	assert.Equal(t, 2*4*1, cat.Size())
	assert.Equal(t, []barcode.Binarization{barcode.GlobalHistogram}, cat.Binarizers)
	assert.Equal(t, "soft", cat.Profiles[0].Name)

	sc.Binarizers = []string{"otsu"}
	_, err = CatalogFromConfig(sc)
	assert.Error(t, err)
}
