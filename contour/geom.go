package contour

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// toOrbRing converts a Ring to an orb.Ring, appending the closing vertex if
// the input is open.
func toOrbRing(r Ring) orb.Ring {
	out := make(orb.Ring, 0, len(r)+1)
	for _, p := range r {
		out = append(out, orb.Point{p.X, p.Y})
	}
	if len(out) > 0 && out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	return out
}

// fromOrbRing converts an orb.Ring back to a Ring.
func fromOrbRing(r orb.Ring) Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[i] = Point{X: p[0], Y: p[1]}
	}
	return out
}

// RingArea returns the unsigned enclosed area of a ring.
func RingArea(r Ring) float64 {
	a := planar.Area(toOrbRing(r))
	if a < 0 {
		return -a
	}
	return a
}

// RingContainsPoint reports whether the point lies inside or on the ring.
func RingContainsPoint(r Ring, p Point) bool {
	return planar.RingContains(toOrbRing(r), orb.Point{p.X, p.Y})
}

// CloseRing returns the ring with its first vertex repeated at the end.
// Already-closed rings are returned unchanged.
func CloseRing(r Ring) Ring {
	if len(r) == 0 || r.Closed() {
		return r
	}
	return append(append(Ring{}, r...), r[0])
}

// openRing strips the closing vertex so passes can treat the ring as a
// cyclic vertex list.
func openRing(r Ring) Ring {
	if r.Closed() {
		return r[:len(r)-1]
	}
	return r
}
