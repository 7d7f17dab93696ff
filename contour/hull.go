package contour

import (
	"fmt"
	"math"

	"github.com/fogleman/delaunay"
)

// alphaCandidates is the number of radius doublings tried by the automatic
// alpha search.
const alphaCandidates = 7

// autoCoverage is the fraction of input points a candidate hull must enclose.
const autoCoverage = 0.95

// BuildHull computes the alpha-shape boundary of a category's point set.
// Triangles of the Delaunay triangulation whose circumradius is below
// 1/alpha survive; the boundary edges of the surviving triangle union form
// the hull ring(s). Disjoint point clusters legitimately yield multiple
// rings, all tagged with the same category label.
//
// alpha <= 0 selects the automatic search: candidate alphas form a geometric
// sequence scaled by the bounding-box diagonal, and the tightest candidate
// producing a single non-degenerate ring enclosing at least 95% of the
// points wins. When no candidate qualifies, or when a fixed alpha leaves no
// usable ring, the convex hull is used instead and the result is flagged.
//
// Fewer than 3 distinct points cannot bound an area and return
// ErrInsufficientPoints. Fully collinear input returns a flagged zero-area
// ring; the caller decides whether to skip or widen the category.
func BuildHull(category int, points []Point3D, alpha float64) (HullPolygon, error) {
	distinct := distinctXY(points)
	if len(distinct) < 3 {
		return HullPolygon{}, fmt.Errorf("category %d has %d distinct points: %w",
			category, len(distinct), ErrInsufficientPoints)
	}

	if ring, ok := collinearRing(distinct); ok {
		return HullPolygon{Category: category, Rings: []Ring{ring}, Degenerate: true}, nil
	}

	sites := make([]delaunay.Point, len(distinct))
	for i, p := range distinct {
		sites[i] = delaunay.Point{X: p.X, Y: p.Y}
	}

	tri, err := delaunay.Triangulate(sites)
	if err != nil {
		return HullPolygon{}, fmt.Errorf("category %d: triangulation: %w: %v",
			category, ErrHullConstruction, err)
	}

	if alpha > 0 {
		rings := alphaShapeRings(tri, 1/alpha)
		if len(rings) > 0 {
			return HullPolygon{Category: category, Rings: rings}, nil
		}
		// Alpha too tight for this point set: fall back to the convex hull
		// rather than failing the category outright.
		return convexFallback(category, tri)
	}

	return autoAlphaHull(category, tri, distinct)
}

// autoAlphaHull searches a geometric sequence of circumradius thresholds,
// tightest first, for a single-ring hull covering enough of the input.
func autoAlphaHull(category int, tri *delaunay.Triangulation, points []Point) (HullPolygon, error) {
	diag := boundingDiagonal(points)
	if diag == 0 {
		return convexFallback(category, tri)
	}

	radius := diag / math.Pow(2, alphaCandidates)
	for i := 0; i <= alphaCandidates; i++ {
		rings := alphaShapeRings(tri, radius)
		radius *= 2

		if len(rings) != 1 {
			continue
		}
		ring := rings[0]
		if RingArea(ring) == 0 {
			continue
		}
		if hullCoverage(ring, points) >= autoCoverage {
			return HullPolygon{Category: category, Rings: []Ring{ring}}, nil
		}
	}

	return convexFallback(category, tri)
}

// convexFallback builds a convex-hull ring when the alpha search is
// exhausted without a usable ring.
func convexFallback(category int, tri *delaunay.Triangulation) (HullPolygon, error) {
	hull := tri.ConvexHull
	if len(hull) < 3 {
		return HullPolygon{}, fmt.Errorf("category %d: convex hull has %d vertices: %w",
			category, len(hull), ErrHullConstruction)
	}

	ring := make(Ring, 0, len(hull)+1)
	for _, p := range hull {
		ring = append(ring, Point{X: p.X, Y: p.Y})
	}
	ring = CloseRing(orientCCW(ring))

	return HullPolygon{Category: category, Rings: []Ring{ring}, ConvexFallback: true}, nil
}

// alphaShapeRings keeps triangles with circumradius below maxRadius and
// stitches the boundary edges of the surviving union into closed rings.
// Interior holes come out wound clockwise and are discarded; the laser-cut
// layers only need outer boundaries.
func alphaShapeRings(tri *delaunay.Triangulation, maxRadius float64) []Ring {
	type dirEdge struct{ from, to int }

	directed := make(map[dirEdge]bool)
	for t := 0; t < len(tri.Triangles); t += 3 {
		a, b, c := tri.Triangles[t], tri.Triangles[t+1], tri.Triangles[t+2]
		if circumradius(tri.Points[a], tri.Points[b], tri.Points[c]) >= maxRadius {
			continue
		}
		directed[dirEdge{a, b}] = true
		directed[dirEdge{b, c}] = true
		directed[dirEdge{c, a}] = true
	}
	if len(directed) == 0 {
		return nil
	}

	// A directed edge is on the boundary when its reverse is absent: the
	// neighboring triangle on that side was filtered out or never existed.
	next := make(map[int][]int)
	for e := range directed {
		if !directed[dirEdge{e.to, e.from}] {
			next[e.from] = append(next[e.from], e.to)
		}
	}

	var rings []Ring
	for start, outs := range next {
		for len(outs) > 0 {
			ring := Ring{pointAt(tri, start)}
			cur := start
			for {
				cand := next[cur]
				if len(cand) == 0 {
					break
				}
				to := cand[len(cand)-1]
				next[cur] = cand[:len(cand)-1]
				ring = append(ring, pointAt(tri, to))
				cur = to
				if cur == start {
					break
				}
			}
			outs = next[start]

			if len(ring) < 4 || !ring.Closed() {
				continue
			}
			if signedArea(ring) > 0 {
				rings = append(rings, ring)
			}
		}
	}

	return rings
}

// hullCoverage is the fraction of points inside or on the ring.
func hullCoverage(ring Ring, points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	inside := 0
	for _, p := range points {
		if RingContainsPoint(ring, p) {
			inside++
		}
	}
	return float64(inside) / float64(len(points))
}

// circumradius of the triangle abc. Near-degenerate triangles report +Inf so
// the alpha filter always drops them.
func circumradius(a, b, c delaunay.Point) float64 {
	ab := math.Hypot(b.X-a.X, b.Y-a.Y)
	bc := math.Hypot(c.X-b.X, c.Y-b.Y)
	ca := math.Hypot(a.X-c.X, a.Y-c.Y)

	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	area2 := math.Abs(cross)
	if area2 < 1e-12 {
		return math.Inf(1)
	}
	return ab * bc * ca / (2 * area2)
}

// distinctXY projects points to 2D and removes exact duplicates, preserving
// first-seen order.
func distinctXY(points []Point3D) []Point {
	seen := make(map[Point]bool, len(points))
	out := make([]Point, 0, len(points))
	for _, p := range points {
		xy := p.XY()
		if !seen[xy] {
			seen[xy] = true
			out = append(out, xy)
		}
	}
	return out
}

// collinearRing detects a fully collinear point set and returns its flagged
// zero-area ring: the two extreme endpoints of the line, closed.
func collinearRing(points []Point) (Ring, bool) {
	if len(points) < 3 {
		return nil, false
	}

	// Reference direction: the longest offset from the first point.
	p0 := points[0]
	far := p0
	maxD := 0.0
	for _, p := range points[1:] {
		if d := Distance(p0, p); d > maxD {
			maxD = d
			far = p
		}
	}
	if maxD == 0 {
		return nil, false
	}

	dx, dy := far.X-p0.X, far.Y-p0.Y
	for _, p := range points {
		cross := dx*(p.Y-p0.Y) - dy*(p.X-p0.X)
		if math.Abs(cross) > 1e-9*maxD {
			return nil, false
		}
	}

	// Endpoints: minimum and maximum projection onto the line direction.
	lo, hi := p0, p0
	loT, hiT := 0.0, 0.0
	for _, p := range points {
		t := dx*(p.X-p0.X) + dy*(p.Y-p0.Y)
		if t < loT {
			loT, lo = t, p
		}
		if t > hiT {
			hiT, hi = t, p
		}
	}

	return Ring{lo, hi, lo}, true
}

// signedArea of a closed ring; positive for counter-clockwise winding.
func signedArea(r Ring) float64 {
	pts := openRing(r)
	if len(pts) < 3 {
		return 0
	}
	sum := 0.0
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// orientCCW reverses a ring wound clockwise.
func orientCCW(r Ring) Ring {
	if signedArea(CloseRing(r)) >= 0 {
		return r
	}
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// boundingDiagonal is the diagonal length of the point set's bounding box.
func boundingDiagonal(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return math.Hypot(maxX-minX, maxY-minY)
}

// pointAt returns the triangulation site with the given index as a Point.
func pointAt(tri *delaunay.Triangulation, idx int) Point {
	return Point{X: tri.Points[idx].X, Y: tri.Points[idx].Y}
}
