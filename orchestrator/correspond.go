package orchestrator

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/crobbins327/valis/features"
)

// pairPoints extracts the matched keypoint positions for an ordered
// (fixed, moving) pair from a neighbor-refined match map keyed by the
// canonical (lo, hi) ordering used throughout features.SimilarityMatrix.
func pairPoints(refined map[[2]int][]features.Match, sets []features.FeatureSet, fixed, moving int) ([]r2.Vec, []r2.Vec) {
	lo, hi := fixed, moving
	swapped := false
	if lo > hi {
		lo, hi = hi, lo
		swapped = true
	}
	ms := refined[[2]int{lo, hi}]
	fixedPts := make([]r2.Vec, len(ms))
	movingPts := make([]r2.Vec, len(ms))
	for k, m := range ms {
		loPt := sets[lo].Keypoints[m.A].Point
		hiPt := sets[hi].Keypoints[m.B].Point
		if swapped {
			// fixed is hi, moving is lo.
			fixedPts[k], movingPts[k] = hiPt, loPt
		} else {
			fixedPts[k], movingPts[k] = loPt, hiPt
		}
	}
	return fixedPts, movingPts
}

// pairCount returns the number of surviving matches for an (a, b) pair,
// independent of argument order.
func pairCount(refined map[[2]int][]features.Match, a, b int) int {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return len(refined[[2]int{lo, hi}])
}
