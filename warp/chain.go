package warp

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// Chain is a slide's full transform from its own native coordinates to
// the set's canonical coordinates:
//
//	xy_canonical = NR( R( S_in(xy_native) ) )
//
// SrcShape is the slide's native (full-resolution) shape; ShapeProc is
// the shape Rigid was fit at; RegShape is the canonical frame shape.
// Fwd/Bwd may be nil, meaning an identity (pre-rigid-only) chain.
type Chain struct {
	SrcShape  Shape
	ShapeProc Shape
	RegShape  Shape
	Rigid     *mat.Dense
	Fwd       *Field
	Bwd       *Field
}

// sIn returns S_in, the similarity scale from SrcShape to ShapeProc.
func (c *Chain) sIn() *mat.Dense {
	sx := float64(c.ShapeProc.Cols) / float64(c.SrcShape.Cols)
	sy := float64(c.ShapeProc.Rows) / float64(c.SrcShape.Rows)
	return ScaleMatrix(sx, sy)
}

// ToCanonical maps points from the slide's native coordinates into the
// canonical frame: NR(R(S_in(xy))).
func (c *Chain) ToCanonical(pts []r2.Vec) []r2.Vec {
	scaled := ApplyPoints(c.sIn(), pts)
	rigid := ApplyPoints(c.Rigid, scaled)
	if c.Fwd == nil {
		return rigid
	}
	return WarpGrid(rigid, c.Fwd)
}

// FromCanonical maps points from the canonical frame back to the slide's
// native coordinates: S_in⁻¹(R⁻¹(xy + bk_dxdy[xy])).
func (c *Chain) FromCanonical(pts []r2.Vec) ([]r2.Vec, error) {
	pulled := pts
	if c.Bwd != nil {
		pulled = make([]r2.Vec, len(pts))
		for i, p := range pts {
			dx, dy := c.Bwd.At(p.X, p.Y)
			pulled[i] = r2.Vec{X: p.X + float64(dx), Y: p.Y + float64(dy)}
		}
	}
	rinv, err := Invert(c.Rigid)
	if err != nil {
		return nil, err
	}
	unrigid := ApplyPoints(rinv, pulled)

	sinv, err := Invert(c.sIn())
	if err != nil {
		return nil, err
	}
	return ApplyPoints(sinv, unrigid), nil
}

// WarpFromTo maps pts, given in "from"'s native coordinates, into "to"'s
// native coordinates by going through the canonical frame:
// to.FromCanonical(from.ToCanonical(pts)). This is the cross-slide warp
// of §4.1, composed without ever rasterizing an intermediate canonical
// image: only the affine parts multiply and the dense parts resample.
func WarpFromTo(from, to *Chain, pts []r2.Vec) ([]r2.Vec, error) {
	canon := from.ToCanonical(pts)
	return to.FromCanonical(canon)
}
