package warp

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// Identity3 returns a 3×3 homogeneous identity matrix.
func Identity3() *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	m.Set(0, 0, 1)
	m.Set(1, 1, 1)
	m.Set(2, 2, 1)
	return m
}

// Translation3 returns a 3×3 homogeneous translation matrix.
func Translation3(tx, ty float64) *mat.Dense {
	m := Identity3()
	m.Set(0, 2, tx)
	m.Set(1, 2, ty)
	return m
}

// ScaleMatrix returns the diagonal homogeneous scale matrix T(sx, sy) used
// by the §4.1 scaling law.
func ScaleMatrix(sx, sy float64) *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	m.Set(0, 0, sx)
	m.Set(1, 1, sy)
	m.Set(2, 2, 1)
	return m
}

// reflection returns one of the four axis-reflection matrices used by the
// rigid registrar's check_reflections search, reflecting about the center
// of a Rows×Cols image.
func reflection(flipX, flipY bool, s Shape) *mat.Dense {
	m := Identity3()
	if flipX {
		m.Set(0, 0, -1)
		m.Set(0, 2, float64(s.Cols))
	}
	if flipY {
		m.Set(1, 1, -1)
		m.Set(1, 2, float64(s.Rows))
	}
	return m
}

// Reflections returns the four axis-reflection variants (identity,
// flip-x, flip-y, flip-both) of shape s, in that order, for the
// reflection search in §10.
func Reflections(s Shape) [4]*mat.Dense {
	return [4]*mat.Dense{
		reflection(false, false, s),
		reflection(true, false, s),
		reflection(false, true, s),
		reflection(true, true, s),
	}
}

// Compose returns a*b (apply b first, then a), the convention used when
// chaining M_moving = M_fixed · M_pair.
func Compose(a, b mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Mul(a, b)
	return &out
}

// Invert returns the inverse of a 3×3 homogeneous matrix, or ErrSingular
// if it cannot be inverted.
func Invert(m mat.Matrix) (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, ErrSingular
	}
	return &inv, nil
}

// ApplyPoint applies homogeneous matrix m to point p.
func ApplyPoint(m mat.Matrix, p r2.Vec) r2.Vec {
	x := m.At(0, 0)*p.X + m.At(0, 1)*p.Y + m.At(0, 2)
	y := m.At(1, 0)*p.X + m.At(1, 1)*p.Y + m.At(1, 2)
	w := m.At(2, 0)*p.X + m.At(2, 1)*p.Y + m.At(2, 2)
	if w != 0 && w != 1 {
		x /= w
		y /= w
	}
	return r2.Vec{X: x, Y: y}
}

// ApplyPoints applies m to every point in pts, returning a new slice.
func ApplyPoints(m mat.Matrix, pts []r2.Vec) []r2.Vec {
	out := make([]r2.Vec, len(pts))
	for i, p := range pts {
		out[i] = ApplyPoint(m, p)
	}
	return out
}

// RescaleRigid implements the §4.1 scaling law: given a matrix fit at
// (srcFit → dstFit), returns the matrix that instead maps (srcNew →
// dstNew), as T(dstNew/dstFit) · M · T(srcFit/srcNew).
func RescaleRigid(m mat.Matrix, srcFit, dstFit, srcNew, dstNew Shape) *mat.Dense {
	sx := float64(srcFit.Cols) / float64(srcNew.Cols)
	sy := float64(srcFit.Rows) / float64(srcNew.Rows)
	dx := float64(dstNew.Cols) / float64(dstFit.Cols)
	dy := float64(dstNew.Rows) / float64(dstFit.Rows)

	pre := ScaleMatrix(sx, sy)
	post := ScaleMatrix(dx, dy)

	return Compose(post, Compose(m, pre))
}

// IsPureTranslation reports whether m has zero rotation and unit scale,
// i.e. is a pure translation, within tolerance eps. This is the invariant
// required of rigid_M[reference].
func IsPureTranslation(m mat.Matrix, eps float64) bool {
	diag0, diag1 := m.At(0, 0), m.At(1, 1)
	off01, off10 := m.At(0, 1), m.At(1, 0)
	return absf(diag0-1) <= eps && absf(diag1-1) <= eps &&
		absf(off01) <= eps && absf(off10) <= eps
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
