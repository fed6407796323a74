package warp

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/transform"
)

// EstimateSimilarity fits the similarity transform (uniform scale +
// rotation + translation) that best maps src onto dst in the
// least-squares sense, via gonum's closed-form Umeyama solver, and
// returns it as a homogeneous 3×3 matrix such that
// ApplyPoint(M, src[i]) ≈ dst[i].
func EstimateSimilarity(src, dst []r2.Vec) (*mat.Dense, error) {
	n := len(src)
	x := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		x.SetRow(i, []float64{src[i].X, src[i].Y})
		y.SetRow(i, []float64{dst[i].X, dst[i].Y})
	}

	c, r, t, err := transform.Umeyama(x, y, -1)
	if err != nil {
		return nil, err
	}

	m := mat.NewDense(3, 3, nil)
	m.Set(0, 0, c*r.At(0, 0))
	m.Set(0, 1, c*r.At(0, 1))
	m.Set(1, 0, c*r.At(1, 0))
	m.Set(1, 1, c*r.At(1, 1))
	m.Set(0, 2, t.AtVec(0))
	m.Set(1, 2, t.AtVec(1))
	m.Set(2, 2, 1)
	return m, nil
}

// ResidualDistance returns the Euclidean distance between M applied to
// src and the corresponding dst point, used by RANSAC-style inlier
// scoring.
func ResidualDistance(m mat.Matrix, src, dst r2.Vec) float64 {
	p := ApplyPoint(m, src)
	dx := p.X - dst.X
	dy := p.Y - dst.Y
	return math.Sqrt(dx*dx + dy*dy)
}
