package warp

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/crobbins327/valis/internal/raster"
)

// Field is a two-band dense displacement field: at every (row, col) it
// stores (Δx, Δy). Dx/Dy are row-major, length Rows*Cols. A Field's zero
// value is a valid, all-zero (identity) displacement of shape 0×0.
type Field struct {
	Rows, Cols int
	Dx, Dy     []float32
}

// NewField allocates a zero (identity) displacement field of the given
// shape.
func NewField(s Shape) *Field {
	n := s.Rows * s.Cols
	return &Field{Rows: s.Rows, Cols: s.Cols, Dx: make([]float32, n), Dy: make([]float32, n)}
}

// Shape returns the field's extent.
func (f *Field) Shape() Shape { return Shape{Rows: f.Rows, Cols: f.Cols} }

// At bilinearly samples the field at a non-integer (x, y) image
// coordinate, clamping to the field's border. Returns (0, 0) for a nil or
// zero-shape field, i.e. an identity displacement.
func (f *Field) At(x, y float64) (dx, dy float32) {
	if f == nil || f.Rows == 0 || f.Cols == 0 {
		return 0, 0
	}
	return raster.SampleField2(f.Dx, f.Dy, f.Rows, f.Cols, x, y)
}

// Clone returns a deep copy of f.
func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}
	out := &Field{Rows: f.Rows, Cols: f.Cols,
		Dx: make([]float32, len(f.Dx)), Dy: make([]float32, len(f.Dy))}
	copy(out.Dx, f.Dx)
	copy(out.Dy, f.Dy)
	return out
}

// Add returns f + g elementwise. f and g must have equal shape.
func Add(f, g *Field) (*Field, error) {
	if f.Rows != g.Rows || f.Cols != g.Cols {
		return nil, ErrShapeMismatch
	}
	out := NewField(f.Shape())
	for i := range out.Dx {
		out.Dx[i] = f.Dx[i] + g.Dx[i]
		out.Dy[i] = f.Dy[i] + g.Dy[i]
	}
	return out, nil
}

// Rescale implements the componentwise part of the §4.1 scaling law:
// dxdy_scaled = (s_out/s_fit) * resize(dxdy, s_out). f is assumed fit at
// its own current shape; out is the new shape.
func Rescale(f *Field, out Shape) *Field {
	if f == nil || f.Rows == 0 || f.Cols == 0 {
		return NewField(out)
	}
	rx := float64(out.Cols) / float64(f.Cols)
	ry := float64(out.Rows) / float64(f.Rows)

	rdx := raster.ResizeGray32(f.Dx, f.Rows, f.Cols, out.Rows, out.Cols)
	rdy := raster.ResizeGray32(f.Dy, f.Rows, f.Cols, out.Rows, out.Cols)

	res := &Field{Rows: out.Rows, Cols: out.Cols, Dx: rdx, Dy: rdy}
	for i := range res.Dx {
		res.Dx[i] *= float32(rx)
		res.Dy[i] *= float32(ry)
	}
	return res
}

// PadDisplacement reconstructs a full-shape field from a sub-field that
// was solved only within bbox, zero everywhere outside it.
func PadDisplacement(sub *Field, full Shape, bbox Rect) *Field {
	out := NewField(full)
	if sub == nil {
		return out
	}
	for row := 0; row < sub.Rows; row++ {
		fr := bbox.Y + row
		if fr < 0 || fr >= full.Rows {
			continue
		}
		for col := 0; col < sub.Cols; col++ {
			fc := bbox.X + col
			if fc < 0 || fc >= full.Cols {
				continue
			}
			si := row*sub.Cols + col
			fi := fr*full.Cols + fc
			out.Dx[fi] = sub.Dx[si]
			out.Dy[fi] = sub.Dy[si]
		}
	}
	return out
}

// Crop extracts the sub-field within bbox (inverse of PadDisplacement).
func Crop(full *Field, bbox Rect) *Field {
	out := NewField(Shape{Rows: bbox.H, Cols: bbox.W})
	for row := 0; row < bbox.H; row++ {
		fr := bbox.Y + row
		if fr < 0 || fr >= full.Rows {
			continue
		}
		for col := 0; col < bbox.W; col++ {
			fc := bbox.X + col
			if fc < 0 || fc >= full.Cols {
				continue
			}
			si := row*bbox.W + col
			fi := fr*full.Cols + fc
			out.Dx[si] = full.Dx[fi]
			out.Dy[si] = full.Dy[fi]
		}
	}
	return out
}

// WarpGrid returns dst such that dst[i] = src[i] + field sampled at
// src[i], i.e. it pushes points forward through a dense displacement
// field. Used by the forward half of the transform chain.
func WarpGrid(pts []r2.Vec, f *Field) []r2.Vec {
	out := make([]r2.Vec, len(pts))
	for i, p := range pts {
		dx, dy := f.At(p.X, p.Y)
		out[i] = r2.Vec{X: p.X + float64(dx), Y: p.Y + float64(dy)}
	}
	return out
}
