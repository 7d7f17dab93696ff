package contour

import "errors"

// Error kinds distinguished by the pipeline. Per-category failures
// (ErrInsufficientPoints, ErrDegenerateRing) are isolated by the orchestrator;
// configuration errors (ErrInvalidBinConfig) abort the whole run.
var (
	// ErrInsufficientData means no valid altitude exists to interpolate from.
	ErrInsufficientData = errors.New("no valid altitude values to interpolate from")

	// ErrInvalidBinConfig means the bin width or edge list cannot partition
	// the altitude domain.
	ErrInvalidBinConfig = errors.New("invalid bin configuration")

	// ErrInsufficientPoints means a category has fewer than 3 distinct points,
	// too few for hull construction.
	ErrInsufficientPoints = errors.New("fewer than 3 distinct points for hull")

	// ErrDegenerateRing means a ring has fewer than 3 distinct vertices and
	// cannot be smoothed.
	ErrDegenerateRing = errors.New("ring has fewer than 3 distinct vertices")

	// ErrHullConstruction means triangulation or the alpha search failed
	// without a usable ring. Callers fall back to the convex hull rather
	// than failing outright; the error surfaces only when even the convex
	// hull is unusable.
	ErrHullConstruction = errors.New("hull construction failed")
)
