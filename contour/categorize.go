package contour

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Categorize partitions cleaned points into altitude bands sorted ascending
// by lower bound. Edges run from min(z) to max(z) in fixed-width steps unless
// an explicit edge list is supplied. Intervals are half-open [lower, upper)
// except the last, which is closed, so a point exactly on an interior edge
// belongs to the higher band.
//
// Empty bands are retained with an empty point list to keep the ordering
// contiguous for export; callers may filter them downstream. With explicit
// edges, points outside the covered domain are clamped into the first or
// last band so that every cleaned point belongs to exactly one category.
func Categorize(points []Point3D, width float64, edges []float64) ([]AltitudeCategory, error) {
	edges, err := resolveEdges(points, width, edges)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, nil
	}

	categories := make([]AltitudeCategory, len(edges)-1)
	for i := range categories {
		categories[i] = AltitudeCategory{
			Label:  i,
			Lower:  edges[i],
			Upper:  edges[i+1],
			Closed: i == len(edges)-2,
		}
	}

	for _, p := range points {
		idx := bandIndex(p.Z, edges)
		categories[idx].Points = append(categories[idx].Points, p)
	}

	return categories, nil
}

// resolveEdges validates an explicit edge list or derives one from the
// altitude range and bin width.
func resolveEdges(points []Point3D, width float64, edges []float64) ([]float64, error) {
	if len(edges) > 0 {
		if len(edges) < 2 {
			return nil, fmt.Errorf("%w: need at least 2 edges, got %d", ErrInvalidBinConfig, len(edges))
		}
		for i := 1; i < len(edges); i++ {
			if edges[i] <= edges[i-1] {
				return nil, fmt.Errorf("%w: edges not strictly increasing at index %d", ErrInvalidBinConfig, i)
			}
		}
		return edges, nil
	}

	if width <= 0 {
		return nil, fmt.Errorf("%w: bin width must be > 0, got %g", ErrInvalidBinConfig, width)
	}
	if len(points) == 0 {
		return nil, nil
	}

	minZ, maxZ := points[0].Z, points[0].Z
	for _, p := range points[1:] {
		if p.Z < minZ {
			minZ = p.Z
		}
		if p.Z > maxZ {
			maxZ = p.Z
		}
	}

	// The first edge aligns down to a multiple of the width so band names
	// come out on round figures ("450m to 500m"), matching the upstream
	// dataset exports.
	origin := math.Floor(minZ/width) * width

	n := int(math.Ceil((maxZ - origin) / width))
	if n < 1 {
		// All altitudes on an exact edge: a single band still partitions
		// the domain.
		n = 1
	}

	out := make([]float64, n+1)
	for i := range out {
		out[i] = origin + float64(i)*width
	}
	return out, nil
}

// bandIndex locates the band for z. Half-open intervals put edge values in
// the higher band; values at or beyond the last edge clamp into the last
// band, values below the first edge into the first.
func bandIndex(z float64, edges []float64) int {
	last := len(edges) - 2
	for i := 1; i < len(edges)-1; i++ {
		if z < edges[i] {
			return i - 1
		}
	}
	if z < edges[0] {
		return 0
	}
	return last
}

// CategoryStats summarizes one band for reporting.
type CategoryStats struct {
	Label  int
	Name   string
	Count  int
	MeanZ  float64
	StdDev float64
}

// Summarize computes per-band altitude statistics. Empty bands report zero
// mean and deviation.
func Summarize(categories []AltitudeCategory) []CategoryStats {
	out := make([]CategoryStats, len(categories))
	for i, c := range categories {
		s := CategoryStats{Label: c.Label, Name: c.Name(), Count: len(c.Points)}
		if len(c.Points) > 0 {
			zs := make([]float64, len(c.Points))
			for j, p := range c.Points {
				zs[j] = p.Z
			}
			s.MeanZ, s.StdDev = stat.MeanStdDev(zs, nil)
			if math.IsNaN(s.StdDev) {
				s.StdDev = 0
			}
		}
		out[i] = s
	}
	return out
}

// BandPoints collects the point set used for band idx's hull. In cumulative
// mode a band's set includes every higher band's points, so the contour at a
// level encloses all terrain above it.
func BandPoints(categories []AltitudeCategory, idx int, cumulative bool) []Point3D {
	if idx < 0 || idx >= len(categories) {
		return nil
	}
	if !cumulative {
		return categories[idx].Points
	}
	var out []Point3D
	for _, c := range categories[idx:] {
		out = append(out, c.Points...)
	}
	return out
}
