package contour

// RescaleTransform maps raw coordinates into the target output range with a
// single uniform scale factor so relative geometry is preserved across the
// whole dataset. It is computed once per run and applied to every ring and
// peak.
type RescaleTransform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// FitRescale computes the transform that maps the bounding box of points into
// [lo, hi] x [lo, hi]. The scale factor comes from the larger of the two axis
// spans; the other axis is centered within the target range. A degenerate
// input where both spans are zero falls back to scale 1.0, placing the
// collapsed point at the target center.
//
// FitRescale is pure and deterministic: the same points and target produce a
// bit-identical transform.
func FitRescale(points []Point3D, lo, hi float64) RescaleTransform {
	if len(points) == 0 {
		return RescaleTransform{Scale: 1}
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	spanX := maxX - minX
	spanY := maxY - minY
	spanT := hi - lo

	span := spanX
	if spanY > span {
		span = spanY
	}

	scale := 1.0
	if span > 0 {
		scale = spanT / span
	}

	// Center each axis within the target range; the larger axis fills it
	// exactly, so its centering term is zero.
	return RescaleTransform{
		Scale:   scale,
		OffsetX: lo - minX*scale + (spanT-scale*spanX)/2,
		OffsetY: lo - minY*scale + (spanT-scale*spanY)/2,
	}
}

// Apply maps a raw 2D coordinate into the target range.
func (t RescaleTransform) Apply(p Point) Point {
	return Point{
		X: p.X*t.Scale + t.OffsetX,
		Y: p.Y*t.Scale + t.OffsetY,
	}
}

// ApplyRing maps every vertex of a ring into the target range.
func (t RescaleTransform) ApplyRing(r Ring) Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[i] = t.Apply(p)
	}
	return out
}

// ApplyPoint3D rescales the planar coordinates of a sample, leaving the
// altitude untouched.
func (t RescaleTransform) ApplyPoint3D(p Point3D) Point3D {
	xy := t.Apply(p.XY())
	return Point3D{X: xy.X, Y: xy.Y, Z: p.Z}
}

// Matrix expresses the rescale as an affine transform for collaborators that
// compose transforms.
func (t RescaleTransform) Matrix() AffineMatrix {
	return MultiplyMatrices(Translation(t.OffsetX, t.OffsetY), Scale(t.Scale, t.Scale))
}
