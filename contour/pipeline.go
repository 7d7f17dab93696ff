package contour

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Pipeline runs the altitude categorization and boundary extraction sequence:
// clean, categorize, per-band hull build and smoothing, then rescale into the
// target coordinate space. Per-band failures are isolated and reported in
// Result.Skipped; only configuration errors abort the run.
type Pipeline struct {
	cfg *Config
}

// NewPipeline validates the configuration and returns a runnable pipeline.
func NewPipeline(cfg *Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg}, nil
}

// Run executes the full pipeline over the ingested records.
func (p *Pipeline) Run(records []Record) (*Result, error) {
	cleaned, err := CleanAltitudes(records, p.cfg.Interpolation)
	if err != nil {
		return nil, fmt.Errorf("cleaning altitudes: %w", err)
	}

	categories, err := Categorize(cleaned, p.cfg.BinWidth, p.cfg.BinEdges)
	if err != nil {
		return nil, fmt.Errorf("categorizing: %w", err)
	}

	peaks := ExtractPeaks(records, cleaned, categories, p.cfg.PeakAttribute)

	transform := FitRescale(cleaned, p.cfg.TargetRange[0], p.cfg.TargetRange[1])

	result := &Result{Categories: categories, Transform: transform}
	cumulative := p.cfg.CumulativeBands()

	// The minimum ring area shrinks per band so the higher, smaller bands
	// keep their rings.
	areaThreshold := p.cfg.MinRingArea

	for _, cat := range categories {
		band, err := p.processBand(categories, cat, cumulative, areaThreshold, transform)
		areaThreshold -= p.cfg.MinRingAreaDecay

		if err != nil {
			// A failed band yields no boundary but must not suppress the
			// remaining bands' output.
			log.Warn().Err(err).Int("category", cat.Label).Str("band", cat.Name()).
				Msg("skipping band")
			result.Skipped = append(result.Skipped, SkippedBand{Label: cat.Label, Name: cat.Name(), Err: err})
			continue
		}

		for _, peak := range peaks {
			if peak.Category == cat.Label {
				band.Peaks = append(band.Peaks, NamedPeak{
					Name:     peak.Name,
					Point:    transform.ApplyPoint3D(peak.Point),
					Category: peak.Category,
				})
			}
		}

		result.Bands = append(result.Bands, band)
	}

	return result, nil
}

// processBand builds, smooths, filters and rescales one band's boundary.
func (p *Pipeline) processBand(categories []AltitudeCategory, cat AltitudeCategory,
	cumulative bool, areaThreshold float64, transform RescaleTransform) (BandResult, error) {

	points := BandPoints(categories, cat.Label, cumulative)
	if len(points) == 0 {
		return BandResult{}, fmt.Errorf("band %s: empty: %w", cat.Name(), ErrInsufficientPoints)
	}

	hull, err := BuildHull(cat.Label, points, p.cfg.Alpha)
	if err != nil {
		return BandResult{}, err
	}
	if hull.Degenerate {
		return BandResult{}, fmt.Errorf("band %s: collinear points yield a zero-area ring: %w",
			cat.Name(), ErrDegenerateRing)
	}
	if hull.ConvexFallback {
		log.Debug().Int("category", cat.Label).Msg("alpha search exhausted, using convex hull")
	}

	// Rings below the area threshold are artifacts of sparse clusters, not
	// contours worth cutting.
	kept := hull.Rings[:0:0]
	for _, ring := range hull.Rings {
		if area := RingArea(ring); area <= areaThreshold {
			log.Debug().Float64("area", area).Float64("threshold", areaThreshold).
				Int("category", cat.Label).Msg("dropping ring below area threshold")
			continue
		}
		kept = append(kept, ring)
	}
	hull.Rings = kept
	if len(hull.Rings) == 0 {
		return BandResult{}, fmt.Errorf("band %s: no ring above area threshold %g: %w",
			cat.Name(), areaThreshold, ErrHullConstruction)
	}

	smoothed, err := SmoothBoundary(hull, SmoothConfig{
		Passes:        p.cfg.SmoothingPasses,
		AreaTolerance: p.cfg.AreaTolerance,
	})
	if err != nil {
		return BandResult{}, err
	}

	for i, ring := range smoothed.Rings {
		smoothed.Rings[i] = transform.ApplyRing(ring)
	}

	return BandResult{Category: cat, Boundary: smoothed, Hull: hull}, nil
}

// ExtractPeaks pulls the attribute-tagged summits out of the record stream.
// Coordinates come from the cleaned points so peaks with repaired altitudes
// carry their interpolated value; the band label comes from the category
// bounds. Order follows the input.
func ExtractPeaks(records []Record, cleaned []Point3D, categories []AltitudeCategory, attr string) []NamedPeak {
	if attr == "" || len(records) != len(cleaned) {
		return nil
	}

	var peaks []NamedPeak
	for i, r := range records {
		name := r.PeakName(attr)
		if name == "" {
			continue
		}
		peaks = append(peaks, NamedPeak{
			Name:     name,
			Point:    cleaned[i],
			Category: categoryFor(cleaned[i].Z, categories),
		})
	}
	return peaks
}

// categoryFor finds the band containing z, or -1 when no band covers it.
func categoryFor(z float64, categories []AltitudeCategory) int {
	for _, c := range categories {
		if c.Contains(z) {
			return c.Label
		}
	}
	return -1
}

// IsConfigError reports whether err is a global configuration mistake that
// should abort the run rather than be isolated per band.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidBinConfig)
}
