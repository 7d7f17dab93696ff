package contour

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
)

// validSample wraps a valid-altitude sample for R-tree storage.
type validSample struct {
	x, y, z float64
}

// Bounds implements rtreego.Spatial. The R-tree requires non-zero extents,
// so point samples get a small epsilon box.
func (s *validSample) Bounds() rtreego.Rect {
	const extent = 1e-9
	rect, _ := rtreego.NewRect(rtreego.Point{s.x, s.y}, []float64{extent, extent})
	return rect
}

// CleanAltitudes repairs missing and out-of-range altitudes. The output has
// the same length and order as the input; every Z is finite and valid.
//
// Invalid samples are estimated from the nearest valid samples in 2D using
// the configured kernel: inverse-distance-weighted average of the k nearest
// ("idw", default) or the single closest sample ("nearest"). A query point
// coinciding with a valid sample takes that sample's altitude directly.
//
// With no valid sample at all the input cannot be repaired and
// ErrInsufficientData is returned. With exactly one valid sample every
// invalid point takes its altitude.
func CleanAltitudes(records []Record, cfg InterpolationConfig) ([]Point3D, error) {
	if len(records) == 0 {
		return nil, nil
	}

	valid := make([]*validSample, 0, len(records))
	for _, r := range records {
		if recordHasValidZ(r, cfg.MinValid) {
			valid = append(valid, &validSample{x: r.X, y: r.Y, z: r.Z})
		}
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("cleaning %d records: %w", len(records), ErrInsufficientData)
	}

	cleaned := make([]Point3D, len(records))

	if len(valid) == 1 {
		// Degenerate but defined: the single valid altitude everywhere.
		for i, r := range records {
			z := valid[0].z
			if recordHasValidZ(r, cfg.MinValid) {
				z = r.Z
			}
			cleaned[i] = Point3D{X: r.X, Y: r.Y, Z: z}
		}
		return cleaned, nil
	}

	tree := rtreego.NewTree(2, 25, 50)
	for _, s := range valid {
		tree.Insert(s)
	}

	k := cfg.Neighbors
	if k <= 0 {
		k = 8
	}
	if cfg.Strategy == "nearest" {
		k = 1
	}
	if k > len(valid) {
		k = len(valid)
	}

	power := cfg.Power
	if power <= 0 {
		power = 2
	}

	for i, r := range records {
		if recordHasValidZ(r, cfg.MinValid) {
			cleaned[i] = Point3D{X: r.X, Y: r.Y, Z: r.Z}
			continue
		}

		neighbors := tree.NearestNeighbors(k, rtreego.Point{r.X, r.Y})
		cleaned[i] = Point3D{X: r.X, Y: r.Y, Z: interpolate(r.X, r.Y, neighbors, power)}
	}

	return cleaned, nil
}

// interpolate estimates an altitude at (x, y) from neighboring valid samples
// by inverse-distance weighting. A coincident neighbor short-circuits to its
// exact altitude.
func interpolate(x, y float64, neighbors []rtreego.Spatial, power float64) float64 {
	var weightSum, zSum float64
	for _, n := range neighbors {
		s, ok := n.(*validSample)
		if !ok {
			continue
		}
		d := math.Hypot(s.x-x, s.y-y)
		if d < 1e-12 {
			return s.z
		}
		w := 1.0 / math.Pow(d, power)
		weightSum += w
		zSum += w * s.z
	}
	if weightSum == 0 {
		return 0
	}
	return zSum / weightSum
}

// recordHasValidZ reports whether a record carries a usable altitude.
// Altitudes at or below the sentinel threshold are placeholders in the
// source data and count as missing.
func recordHasValidZ(r Record, minValid float64) bool {
	if !r.HasZ {
		return false
	}
	if math.IsNaN(r.Z) || math.IsInf(r.Z, 0) {
		return false
	}
	return r.Z > minValid
}
