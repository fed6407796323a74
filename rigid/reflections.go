package rigid

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/crobbins327/valis/warp"
)

// FitWithReflections fits each of the four axis-reflection variants of
// movingShape and keeps the variant with the most inliers under
// tolerance (§4.5 "if check_reflections is enabled"). The returned
// matrix already composes the winning reflection: applying it to a
// point in moving's native coordinates reflects, then fits, in one step.
func FitWithReflections(class TransformClass, src, dst []r2.Vec, movingShape warp.Shape, tolerance float64) (*mat.Dense, int, error) {
	reflections := warp.Reflections(movingShape)

	var best *mat.Dense
	bestInliers := -1
	var firstErr error
	for _, refl := range reflections {
		reflectedSrc := warp.ApplyPoints(refl, src)
		fitted, err := Fit(class, reflectedSrc, dst)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		composed := warp.Compose(fitted, refl)
		inliers := countInliers(composed, src, dst, tolerance)
		if inliers > bestInliers {
			bestInliers = inliers
			best = composed
		}
	}
	if best == nil {
		return nil, 0, firstErr
	}
	return best, bestInliers, nil
}

func countInliers(m *mat.Dense, src, dst []r2.Vec, tolerance float64) int {
	n := 0
	for i := range src {
		if warp.ResidualDistance(m, src[i], dst[i]) <= tolerance {
			n++
		}
	}
	return n
}
