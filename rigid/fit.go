package rigid

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/crobbins327/valis/warp"
)

// TransformClass selects a rigid-fit model family. The zero value is
// Similarity, the default transform class (§4.10).
type TransformClass int

const (
	Similarity TransformClass = iota
	Affine
	Projective
	Translation
)

// Ladder is the four-class transform retry ladder: Similarity is tried
// first (§4.10 default), escalating toward more flexible models on
// divergence, with Translation as the guaranteed-non-singular fallback
// (§7 RigidFitDiverged; §9 Open Question decisions).
var Ladder = []TransformClass{Similarity, Affine, Projective, Translation}

// Fit estimates a homogeneous 3×3 matrix mapping src onto dst for the
// given transform class.
func Fit(class TransformClass, src, dst []r2.Vec) (*mat.Dense, error) {
	switch class {
	case Translation:
		return fitTranslation(src, dst)
	case Affine:
		return fitAffine(src, dst)
	case Projective:
		return fitProjective(src, dst)
	default:
		return warp.EstimateSimilarity(src, dst)
	}
}

// FitWithLadder tries each class in Ladder starting at start, returning
// the first class whose fit succeeds and is invertible.
func FitWithLadder(start TransformClass, src, dst []r2.Vec) (*mat.Dense, TransformClass, error) {
	begin := 0
	for i, c := range Ladder {
		if c == start {
			begin = i
			break
		}
	}
	for _, c := range Ladder[begin:] {
		m, err := Fit(c, src, dst)
		if err != nil {
			continue
		}
		if _, err := warp.Invert(m); err != nil {
			continue
		}
		return m, c, nil
	}
	return nil, 0, ErrRigidFitDiverged
}

func fitTranslation(src, dst []r2.Vec) (*mat.Dense, error) {
	if len(src) == 0 {
		return nil, ErrTooFewPoints
	}
	var sx, sy, dx, dy float64
	for i := range src {
		sx += src[i].X
		sy += src[i].Y
		dx += dst[i].X
		dy += dst[i].Y
	}
	n := float64(len(src))
	return warp.Translation3(dx/n-sx/n, dy/n-sy/n), nil
}

// fitAffine solves the two independent 3-unknown least squares systems
// [a b tx] and [c d ty] via QR, since x and y outputs of an affine map
// don't interact.
func fitAffine(src, dst []r2.Vec) (*mat.Dense, error) {
	n := len(src)
	if n < 3 {
		return nil, ErrTooFewPoints
	}
	design := mat.NewDense(n, 3, nil)
	bx := mat.NewDense(n, 1, nil)
	by := mat.NewDense(n, 1, nil)
	for i, p := range src {
		design.SetRow(i, []float64{p.X, p.Y, 1})
		bx.Set(i, 0, dst[i].X)
		by.Set(i, 0, dst[i].Y)
	}

	var qr mat.QR
	qr.Factorize(design)

	var px, py mat.Dense
	if err := qr.Solve(&px, false, bx); err != nil {
		return nil, err
	}
	if err := qr.Solve(&py, false, by); err != nil {
		return nil, err
	}

	m := mat.NewDense(3, 3, nil)
	m.Set(0, 0, px.At(0, 0))
	m.Set(0, 1, px.At(1, 0))
	m.Set(0, 2, px.At(2, 0))
	m.Set(1, 0, py.At(0, 0))
	m.Set(1, 1, py.At(1, 0))
	m.Set(1, 2, py.At(2, 0))
	m.Set(2, 2, 1)
	return m, nil
}

// fitProjective solves for an 8-parameter homography via the direct
// linear transform, fixing h[2][2] = 1 and solving the resulting 2n×8
// least-squares system for the remaining parameters.
func fitProjective(src, dst []r2.Vec) (*mat.Dense, error) {
	n := len(src)
	if n < 4 {
		return nil, ErrTooFewPoints
	}
	design := mat.NewDense(2*n, 8, nil)
	b := mat.NewDense(2*n, 1, nil)
	for i, p := range src {
		x, y := p.X, p.Y
		u, v := dst[i].X, dst[i].Y
		design.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -x * u, -y * u})
		b.Set(2*i, 0, u)
		design.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -x * v, -y * v})
		b.Set(2*i+1, 0, v)
	}

	var qr mat.QR
	qr.Factorize(design)
	var h mat.Dense
	if err := qr.Solve(&h, false, b); err != nil {
		return nil, err
	}

	m := mat.NewDense(3, 3, nil)
	for i := 0; i < 8; i++ {
		m.Set(i/3, i%3, h.At(i, 0))
	}
	m.Set(2, 2, 1)
	return m, nil
}
