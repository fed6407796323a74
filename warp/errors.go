package warp

import "errors"

// Sentinel errors returned by this package. Callers should compare with
// errors.Is; messages are never wrapped at the definition site.
var (
	// ErrSingular is returned when a rigid matrix cannot be inverted.
	ErrSingular = errors.New("warp: matrix is singular")

	// ErrShapeMismatch is returned when a displacement field's shape does
	// not match the shape it is being combined with.
	ErrShapeMismatch = errors.New("warp: shape mismatch")

	// ErrEmptyMask is returned by BBoxForMask when the mask has no
	// foreground pixels.
	ErrEmptyMask = errors.New("warp: mask has no foreground pixels")

	// ErrBadPolygon is returned when a polygon has fewer than 3 vertices.
	ErrBadPolygon = errors.New("warp: polygon needs at least 3 vertices")
)
