package warp

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// WarpPoints applies a rigid matrix m (already fit for, or rescaled to,
// the srcShape→dstShape pair) to pts and, if fwd is non-nil, adds the
// forward displacement sampled at the rigidly-warped location. srcShape
// and dstShape are accepted for signature symmetry with the image-warp
// path and are not used; fwd's extent is not checked against them.
// Rescaling m itself to a different shape pair is RescaleRigid's job,
// performed by the caller before this is called.
func WarpPoints(pts []r2.Vec, m *mat.Dense, srcShape, dstShape Shape, fwd *Field) []r2.Vec {
	_ = srcShape
	out := ApplyPoints(m, pts)
	if fwd != nil {
		out = WarpGrid(out, fwd)
	}
	return out
}

// WarpPointsInverse is the inverse of WarpPoints: it adds the
// backward displacement at pts (assumed already in canonical/dst space),
// then applies m's inverse to return points in src space.
func WarpPointsInverse(pts []r2.Vec, m *mat.Dense, srcShape, dstShape Shape, bwd *Field) ([]r2.Vec, error) {
	_ = srcShape
	_ = dstShape
	inv, err := Invert(m)
	if err != nil {
		return nil, err
	}
	pulled := make([]r2.Vec, len(pts))
	for i, p := range pts {
		dx, dy := bwd.At(p.X, p.Y)
		pulled[i] = r2.Vec{X: p.X + float64(dx), Y: p.Y + float64(dy)}
	}
	return ApplyPoints(inv, pulled), nil
}
