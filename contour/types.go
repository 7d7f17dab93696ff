package contour

import "fmt"

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point3D is a cleaned sample: a 2D position with a resolved altitude.
// Instances are immutable once produced by CleanAltitudes.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// XY returns the planar projection of the sample.
func (p Point3D) XY() Point {
	return Point{X: p.X, Y: p.Y}
}

// Record is one geometry vertex as delivered by the ingestion boundary.
// HasZ is false when the source geometry carried no altitude; the cleaner
// resolves such records before categorization.
type Record struct {
	X     float64
	Y     float64
	Z     float64
	HasZ  bool
	Attrs map[string]string
}

// PeakName returns the value of the peak-name attribute, or "" when absent.
func (r Record) PeakName(attr string) string {
	if r.Attrs == nil {
		return ""
	}
	return r.Attrs[attr]
}

// AltitudeCategory is one altitude band. Bounds are half-open [Lower, Upper)
// except the last band of a partition, which is closed. Points holds the
// cleaned samples assigned to this band, in input order.
type AltitudeCategory struct {
	Label  int
	Lower  float64
	Upper  float64
	Closed bool
	Points []Point3D
}

// Name renders the band label the way the output files are named,
// e.g. "450m to 500m".
func (c AltitudeCategory) Name() string {
	return fmt.Sprintf("%gm to %gm", c.Lower, c.Upper)
}

// Contains reports whether z falls inside this band's interval.
func (c AltitudeCategory) Contains(z float64) bool {
	if c.Closed {
		return z >= c.Lower && z <= c.Upper
	}
	return z >= c.Lower && z < c.Upper
}

// Ring is an ordered, closed sequence of 2D vertices bounding a polygon.
// A well-formed ring repeats its first vertex as the last.
type Ring []Point

// Closed reports whether the ring's first and last vertices coincide.
func (r Ring) Closed() bool {
	if len(r) < 2 {
		return false
	}
	return r[0] == r[len(r)-1]
}

// DistinctVertices counts vertices ignoring the closing duplicate and any
// consecutive repeats.
func (r Ring) DistinctVertices() int {
	if len(r) == 0 {
		return 0
	}
	pts := r
	if r.Closed() {
		pts = r[:len(r)-1]
	}
	n := 0
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			n++
		}
	}
	return n
}

// HullPolygon is the raw alpha-shape boundary of one category's point set.
// A disconnected point set legitimately yields multiple disjoint rings.
type HullPolygon struct {
	Category int
	Rings    []Ring

	// Degenerate marks a collinear point set: the single ring has zero area
	// and the caller decides whether to skip or widen the category.
	Degenerate bool

	// ConvexFallback marks that the alpha search was exhausted and the
	// convex hull was used instead.
	ConvexFallback bool
}

// SmoothedBoundary carries the smoothed rings of one category, same ring
// topology as the source HullPolygon but with adjusted vertex positions.
type SmoothedBoundary struct {
	Category int
	Rings    []Ring
}

// NamedPeak is a summit extracted from the attribute-tagged subset of the
// input geometries. It is carried through rescaling unchanged in order and
// consumed only at export time.
type NamedPeak struct {
	Name     string
	Point    Point3D
	Category int
}

// BandResult is the per-category output handed to the export collaborators.
type BandResult struct {
	Category AltitudeCategory
	Boundary SmoothedBoundary
	Peaks    []NamedPeak
	Hull     HullPolygon
}

// SkippedBand records a per-category failure that was isolated rather than
// propagated; the band yields no boundary in the export.
type SkippedBand struct {
	Label int
	Name  string
	Err   error
}

// Result is the full pipeline output: retained bands in ascending altitude
// order, skipped bands with their reasons, and the single global rescale
// transform applied to every ring and peak.
type Result struct {
	Categories []AltitudeCategory
	Bands      []BandResult
	Skipped    []SkippedBand
	Transform  RescaleTransform
}
