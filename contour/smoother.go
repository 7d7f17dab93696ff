package contour

import (
	"fmt"
	"math"
)

// SmoothConfig controls the boundary smoothing pass.
type SmoothConfig struct {
	// Passes is the number of corner-cutting iterations.
	Passes int

	// AreaTolerance bounds the relative change of enclosed area; a pass that
	// would drift further is discarded and smoothing stops. Zero means the
	// default of 5%.
	AreaTolerance float64
}

const defaultAreaTolerance = 0.05

// SmoothBoundary smooths every ring of a hull polygon, reducing
// vertex-to-vertex angular variance while preserving ring topology.
//
// Each pass is Chaikin corner cutting over the closed ring with wrap-around
// neighbor access, producing a new ring per pass; closure is re-established
// exactly after every pass. Smoothing stops early once a pass would move the
// enclosed area outside the tolerance band, keeping the last ring that was
// within it. Zero-area rings pass through unchanged.
//
// A ring with fewer than 3 distinct vertices cannot be smoothed and returns
// ErrDegenerateRing.
func SmoothBoundary(hull HullPolygon, cfg SmoothConfig) (SmoothedBoundary, error) {
	out := SmoothedBoundary{Category: hull.Category, Rings: make([]Ring, 0, len(hull.Rings))}
	for i, ring := range hull.Rings {
		smoothed, err := SmoothRing(ring, cfg)
		if err != nil {
			return SmoothedBoundary{}, fmt.Errorf("ring %d of category %d: %w", i, hull.Category, err)
		}
		out.Rings = append(out.Rings, smoothed)
	}
	return out, nil
}

// SmoothRing smooths a single closed ring. See SmoothBoundary.
func SmoothRing(ring Ring, cfg SmoothConfig) (Ring, error) {
	if ring.DistinctVertices() < 3 {
		return nil, ErrDegenerateRing
	}

	refArea := RingArea(ring)
	if refArea == 0 {
		return ring, nil
	}

	tol := cfg.AreaTolerance
	if tol <= 0 {
		tol = defaultAreaTolerance
	}

	current := CloseRing(ring)
	for pass := 0; pass < cfg.Passes; pass++ {
		candidate := chaikinPass(current)
		if math.Abs(RingArea(candidate)-refArea)/refArea > tol {
			break
		}
		current = candidate
	}

	return current, nil
}

// chaikinPass cuts every corner of a closed ring: each edge contributes the
// points at 1/4 and 3/4 of its length. The input closing vertex is dropped
// before the fold and the output is closed again from its first vertex.
func chaikinPass(ring Ring) Ring {
	pts := openRing(ring)
	n := len(pts)

	out := make(Ring, 0, 2*n+1)
	for i := 0; i < n; i++ {
		p := pts[i]
		q := pts[(i+1)%n]
		out = append(out,
			Point{X: 0.75*p.X + 0.25*q.X, Y: 0.75*p.Y + 0.25*q.Y},
			Point{X: 0.25*p.X + 0.75*q.X, Y: 0.25*p.Y + 0.75*q.Y},
		)
	}
	return append(out, out[0])
}
