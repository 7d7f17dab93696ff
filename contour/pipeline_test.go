package contour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hillRecords builds a 7x7 grid with a raised 3x3 plateau in the middle:
// two altitude bands under the default 50m width.
func hillRecords() []Record {
	var records []Record
	for x := 0; x <= 60; x += 10 {
		for y := 0; y <= 60; y += 10 {
			z := 120.0
			if x >= 20 && x <= 40 && y >= 20 && y <= 40 {
				z = 160.0
			}
			r := Record{X: float64(x), Y: float64(y), Z: z, HasZ: true}
			if x == 30 && y == 30 {
				r.Attrs = map[string]string{"nom": "Puig Central"}
			}
			records = append(records, r)
		}
	}
	return records
}

func TestPipeline_Run(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Alpha = 0.05 // generous fixed radius, deterministic on a coarse grid

	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	result, err := p.Run(hillRecords())
	require.NoError(t, err)

	require.Len(t, result.Categories, 2)
	assert.Equal(t, "100m to 150m", result.Categories[0].Name())
	assert.Equal(t, "150m to 200m", result.Categories[1].Name())

	require.Len(t, result.Bands, 2, "both bands should produce a boundary")
	assert.Empty(t, result.Skipped)

	lo, hi := cfg.TargetRange[0], cfg.TargetRange[1]
	for _, band := range result.Bands {
		require.NotEmpty(t, band.Boundary.Rings)
		for _, ring := range band.Boundary.Rings {
			assert.True(t, ring.Closed(), "band %s ring not closed", band.Category.Name())
			for _, v := range ring {
				assert.GreaterOrEqual(t, v.X, lo-epsilon)
				assert.LessOrEqual(t, v.X, hi+epsilon)
				assert.GreaterOrEqual(t, v.Y, lo-epsilon)
				assert.LessOrEqual(t, v.Y, hi+epsilon)
			}
		}
	}

	// Cumulative mode: the lower band's hull encloses the whole grid, so its
	// area exceeds the plateau band's.
	lower := RingArea(result.Bands[0].Boundary.Rings[0])
	upper := RingArea(result.Bands[1].Boundary.Rings[0])
	assert.Greater(t, lower, upper)

	// The named summit lands in the plateau band, rescaled into the target.
	require.Len(t, result.Bands[1].Peaks, 1)
	peak := result.Bands[1].Peaks[0]
	assert.Equal(t, "Puig Central", peak.Name)
	assert.InDelta(t, (lo+hi)/2, peak.Point.X, 1)
	assert.InDelta(t, (lo+hi)/2, peak.Point.Y, 1)
	assert.Equal(t, 160.0, peak.Point.Z, "altitude must survive rescaling untouched")
}

func TestPipeline_SkipsFailingBand(t *testing.T) {
	// A solid lower band plus an upper band of only two points. The upper
	// band cannot bound an area and must be skipped without suppressing the
	// lower band's output.
	records := []Record{
		{X: 0, Y: 0, Z: 10, HasZ: true},
		{X: 10, Y: 0, Z: 10, HasZ: true},
		{X: 10, Y: 10, Z: 10, HasZ: true},
		{X: 0, Y: 10, Z: 10, HasZ: true},
		{X: 5, Y: 5, Z: 60, HasZ: true},
		{X: 6, Y: 5, Z: 60, HasZ: true},
	}

	cumulative := false
	cfg := DefaultConfig()
	cfg.Alpha = 0.05
	cfg.Cumulative = &cumulative
	cfg.MinRingArea = 1

	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	result, err := p.Run(records)
	require.NoError(t, err)

	require.Len(t, result.Bands, 1)
	assert.Equal(t, 0, result.Bands[0].Category.Label)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 1, result.Skipped[0].Label)
	assert.ErrorIs(t, result.Skipped[0].Err, ErrInsufficientPoints)
}

func TestPipeline_EmptyBandSkipped(t *testing.T) {
	// Explicit edges leave the middle band empty in non-cumulative mode.
	records := []Record{
		{X: 0, Y: 0, Z: 10, HasZ: true},
		{X: 10, Y: 0, Z: 10, HasZ: true},
		{X: 5, Y: 10, Z: 15, HasZ: true},
		{X: 0, Y: 0, Z: 210, HasZ: true},
		{X: 10, Y: 0, Z: 210, HasZ: true},
		{X: 5, Y: 10, Z: 215, HasZ: true},
	}

	cumulative := false
	cfg := DefaultConfig()
	cfg.Alpha = 0.05
	cfg.Cumulative = &cumulative
	cfg.MinRingArea = 1
	cfg.BinEdges = []float64{0, 100, 200, 300}

	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	result, err := p.Run(records)
	require.NoError(t, err)

	assert.Len(t, result.Bands, 2)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "100m to 200m", result.Skipped[0].Name)
}

func TestNewPipeline_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BinWidth = -1

	_, err := NewPipeline(cfg)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestNewPipeline_NilConfigUsesDefaults(t *testing.T) {
	p, err := NewPipeline(nil)
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestExtractPeaks(t *testing.T) {
	records := []Record{
		{X: 0, Y: 0, Attrs: map[string]string{"nom": "Puig Alt"}},
		{X: 1, Y: 1},
		{X: 2, Y: 2, Attrs: map[string]string{"nom": ""}},
	}
	cleaned := []Point3D{{0, 0, 175}, {1, 1, 120}, {2, 2, 130}}
	categories := []AltitudeCategory{
		{Label: 0, Lower: 100, Upper: 150},
		{Label: 1, Lower: 150, Upper: 200, Closed: true},
	}

	peaks := ExtractPeaks(records, cleaned, categories, "nom")
	require.Len(t, peaks, 1)
	assert.Equal(t, "Puig Alt", peaks[0].Name)
	assert.Equal(t, 1, peaks[0].Category)
	assert.Equal(t, 175.0, peaks[0].Point.Z, "peak altitude comes from the cleaned point")

	assert.Nil(t, ExtractPeaks(records, cleaned, categories, ""))
	assert.Nil(t, ExtractPeaks(records, cleaned[:2], categories, "nom"))
}
