package rigid

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/crobbins327/valis/warp"
)

// Correspondences returns, for one (fixed, moving) pair, the matched
// point sets in each image's own processed-image pixel coordinates.
// Implementations are injected by the caller (features.SimilarityMatrix
// plus the detector's keypoints supply this).
type Correspondences func(fixed, moving int) (fixedPts, movingPts []r2.Vec)

// FullRigid walks order outward from referenceIdx, fitting each
// moving/fixed pair's transform and composing it onto the fixed
// slide's already-known matrix: M_moving = M_fixed · M_pair (§4.5.1).
// The returned matrices are in each slide's own ShapeProc coordinates,
// not yet translated into the canonical frame — call CanonicalShape
// next.
func FullRigid(order []int, referenceIdx int, corr Correspondences, shapeOf func(idx int) warp.Shape, startClass TransformClass, checkReflections bool, tolerance float64) (map[int]*mat.Dense, map[int]int, error) {
	pos := -1
	for i, idx := range order {
		if idx == referenceIdx {
			pos = i
			break
		}
	}
	if pos < 0 {
		pos = 0
		referenceIdx = order[0]
	}

	m := map[int]*mat.Dense{referenceIdx: warp.Identity3()}
	fixedNeighbor := map[int]int{referenceIdx: -1}

	step := func(fixed, moving int) error {
		fixedPts, movingPts := corr(fixed, moving)
		pair, err := fitPair(startClass, checkReflections, movingPts, fixedPts, shapeOf(moving), tolerance)
		if err != nil {
			return err
		}
		m[moving] = warp.Compose(m[fixed], pair)
		fixedNeighbor[moving] = fixed
		return nil
	}

	for k := pos + 1; k < len(order); k++ {
		if err := step(order[k-1], order[k]); err != nil {
			return nil, nil, err
		}
	}
	for k := pos - 1; k >= 0; k-- {
		if err := step(order[k+1], order[k]); err != nil {
			return nil, nil, err
		}
	}
	return m, fixedNeighbor, nil
}

// PartialEntry is one slide's caller-supplied rigid registration input
// (§4.5.2 "partial rigid").
type PartialEntry struct {
	M        *mat.Dense
	SrcShape *warp.Shape // shape M was fit at, if known; nil means shapeOf(idx)
	DstShape *warp.Shape // destination shape M targets, if known
}

// PartialRigid fills in a caller-supplied slide→matrix mapping. Entries
// missing from supplied are derived as in FullRigid, relative to
// whichever neighbor in order is already known (caller-supplied or
// already derived). Supplied matrices are rescaled into each slide's
// ShapeProc via the §4.1 scaling law. A supplied entry whose matrix is
// not invertible fails with ErrUnderspecifiedMatrix; matches are not
// used to derive a replacement (§9 Open Question (a)).
func PartialRigid(order []int, referenceIdx int, supplied map[int]PartialEntry, corr Correspondences, shapeOf func(idx int) warp.Shape, startClass TransformClass, checkReflections bool, tolerance float64) (map[int]*mat.Dense, map[int]int, error) {
	if len(supplied) == 0 {
		m := make(map[int]*mat.Dense, len(order))
		fixedNeighbor := make(map[int]int, len(order))
		for i, idx := range order {
			m[idx] = warp.Identity3()
			if i == 0 {
				fixedNeighbor[idx] = -1
			} else {
				fixedNeighbor[idx] = order[i-1]
			}
		}
		return m, fixedNeighbor, nil
	}

	m := make(map[int]*mat.Dense, len(order))
	fixedNeighbor := make(map[int]int, len(order))
	for idx, entry := range supplied {
		shape := shapeOf(idx)
		if _, err := warp.Invert(entry.M); err != nil {
			return nil, nil, ErrUnderspecifiedMatrix
		}
		srcFit := shape
		if entry.SrcShape != nil {
			srcFit = *entry.SrcShape
		}
		dstFit := shape
		if entry.DstShape != nil {
			dstFit = *entry.DstShape
		}
		m[idx] = warp.RescaleRigid(entry.M, srcFit, dstFit, shape, shape)
		fixedNeighbor[idx] = -2 // caller-supplied; no derived neighbor
	}
	if _, ok := m[referenceIdx]; !ok {
		m[referenceIdx] = warp.Identity3()
		fixedNeighbor[referenceIdx] = -1
	}

	pos := 0
	for i, idx := range order {
		if idx == referenceIdx {
			pos = i
			break
		}
	}

	derive := func(fixed, moving int) error {
		if _, ok := m[moving]; ok {
			return nil
		}
		fixedPts, movingPts := corr(fixed, moving)
		pair, err := fitPair(startClass, checkReflections, movingPts, fixedPts, shapeOf(moving), tolerance)
		if err != nil {
			return err
		}
		m[moving] = warp.Compose(m[fixed], pair)
		fixedNeighbor[moving] = fixed
		return nil
	}
	for k := pos + 1; k < len(order); k++ {
		if err := derive(order[k-1], order[k]); err != nil {
			return nil, nil, err
		}
	}
	for k := pos - 1; k >= 0; k-- {
		if err := derive(order[k+1], order[k]); err != nil {
			return nil, nil, err
		}
	}
	return m, fixedNeighbor, nil
}

func fitPair(startClass TransformClass, checkReflections bool, movingPts, fixedPts []r2.Vec, movingShape warp.Shape, tolerance float64) (*mat.Dense, error) {
	if checkReflections {
		m, _, err := FitWithReflections(startClass, movingPts, fixedPts, movingShape, tolerance)
		if err == nil {
			return m, nil
		}
	}
	m, err := Fit(startClass, movingPts, fixedPts)
	if err == nil {
		if _, ierr := warp.Invert(m); ierr == nil {
			return m, nil
		}
	}
	m, _, err = FitWithLadder(startClass, movingPts, fixedPts)
	return m, err
}

// CanonicalShape computes reg_shape as the tight bounding box of every
// slide's transformed image corners, snapped upward to integer
// dimensions, and returns every matrix with the additional translation
// that places that union at the origin (§4.5 "Canonical shape"). The
// reference slide's final matrix is consequently a pure translation.
func CanonicalShape(shapeOf func(idx int) warp.Shape, m map[int]*mat.Dense) (warp.Shape, map[int]*mat.Dense) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for idx, mx := range m {
		corners := warp.CornersOf(shapeOf(idx))
		warped := warp.ApplyPoints(mx, corners)
		for _, p := range warped {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}

	regShape := warp.Shape{
		Rows: int(math.Ceil(maxY - minY)),
		Cols: int(math.Ceil(maxX - minX)),
	}

	shift := warp.Translation3(-minX, -minY)
	final := make(map[int]*mat.Dense, len(m))
	for idx, mx := range m {
		final[idx] = warp.Compose(shift, mx)
	}
	return regShape, final
}
