package slide

import (
	"image"
	"image/color"

	"gonum.org/v1/gonum/mat"

	"github.com/crobbins327/valis/warp"
)

// Record is one slide's accumulated state as it moves through the
// pipeline. Fields are populated in stages: ImageThumb/MaskThumb/RigidM
// after rigid alignment, FwdDxDy/BwdDxDy after non-rigid, StackIdx/
// FixedNeighbor after ordering (§3). A zero-value field means that
// stage hasn't run yet.
type Record struct {
	Src string

	Pyramid       []Dims
	PhysicalPixel PhysicalPixel
	Modality      Modality
	Channels      []Channel

	ImageThumb *image.Gray
	MaskThumb  *image.Gray
	ShapeProc  warp.Shape

	RigidM *mat.Dense

	RegShape warp.Shape

	FwdDxDy *warp.Field
	BwdDxDy *warp.Field

	StackIdx      int
	FixedNeighbor int // -1 for the reference slide

	BgColor color.Gray
}

// SrcShape returns the slide's native full-resolution shape, i.e. the
// largest pyramid level.
func (r *Record) SrcShape() warp.Shape {
	if len(r.Pyramid) == 0 {
		return warp.Shape{}
	}
	d := r.Pyramid[0]
	return warp.Shape{Rows: d.H, Cols: d.W}
}

// Chain builds the warp.Chain this record currently supports; Fwd/Bwd
// are nil until non-rigid registration has populated them.
func (r *Record) Chain() *warp.Chain {
	return &warp.Chain{
		SrcShape:  r.SrcShape(),
		ShapeProc: r.ShapeProc,
		RegShape:  r.RegShape,
		Rigid:     r.RigidM,
		Fwd:       r.FwdDxDy,
		Bwd:       r.BwdDxDy,
	}
}

// IsReference reports whether this record is its set's reference slide.
func (r *Record) IsReference() bool {
	return r.FixedNeighbor < 0
}
