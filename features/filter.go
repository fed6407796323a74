package features

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/crobbins327/valis/warp"
)

// FilterMethod selects the geometric outlier-rejection policy applied
// to raw mutual-NN matches (§4.4, §4.10 default_match_filter = RANSAC).
type FilterMethod int

const (
	FilterRANSAC FilterMethod = iota
	FilterGridMotionStatistics
)

// Filter rejects outlier matches between two FeatureSets according to
// method, given their already-detected keypoints.
func Filter(a, b FeatureSet, matches []Match, method FilterMethod, tolerance float64, iterations int, seed int64) []Match {
	switch method {
	case FilterGridMotionStatistics:
		return gridMotionStatistics(a, b, matches, tolerance)
	default:
		return ransac(a, b, matches, tolerance, iterations, seed)
	}
}

// ransac repeatedly fits a similarity transform from a random minimal
// sample of matches and keeps the fit with the most inliers under
// tolerance, returning the winning inlier set
// (§4.10 default_transform_class = similarity; match filter = RANSAC).
func ransac(a, b FeatureSet, matches []Match, tolerance float64, iterations int, seed int64) []Match {
	if len(matches) < 2 {
		return nil
	}
	rng := newLCG(seed)

	var bestInliers []Match
	for iter := 0; iter < iterations; iter++ {
		i0 := int(rng.next() % uint64(len(matches)))
		i1 := int(rng.next() % uint64(len(matches)))
		if i0 == i1 {
			continue
		}
		src := []r2.Vec{a.Keypoints[matches[i0].A].Point, a.Keypoints[matches[i1].A].Point}
		dst := []r2.Vec{b.Keypoints[matches[i0].B].Point, b.Keypoints[matches[i1].B].Point}
		m, err := warp.EstimateSimilarity(src, dst)
		if err != nil {
			continue
		}

		var inliers []Match
		for _, mt := range matches {
			d := warp.ResidualDistance(m, a.Keypoints[mt.A].Point, b.Keypoints[mt.B].Point)
			if d <= tolerance {
				inliers = append(inliers, mt)
			}
		}
		if len(inliers) > len(bestInliers) {
			bestInliers = inliers
		}
	}
	return bestInliers
}

// gridMotionStatistics bins matches by their (dx, dy) displacement
// vector into tolerance-sized grid cells and keeps the matches in the
// single most populous cell, following the grid-based-motion-statistics
// idea of rejecting matches whose motion is inconsistent with the
// dominant local motion.
func gridMotionStatistics(a, b FeatureSet, matches []Match, cellSize float64) []Match {
	if cellSize <= 0 {
		cellSize = 5
	}
	type cell struct{ x, y int }
	buckets := make(map[cell][]Match)
	for _, mt := range matches {
		pa := a.Keypoints[mt.A].Point
		pb := b.Keypoints[mt.B].Point
		dx := pb.X - pa.X
		dy := pb.Y - pa.Y
		key := cell{int(dx / cellSize), int(dy / cellSize)}
		buckets[key] = append(buckets[key], mt)
	}
	var best []Match
	for _, ms := range buckets {
		if len(ms) > len(best) {
			best = ms
		}
	}
	return best
}

// lcg is a minimal deterministic PRNG so RANSAC sampling is reproducible
// given a seed (§9 Open Question (c): seeded detectors/solvers).
type lcg struct{ state uint64 }

func newLCG(seed int64) *lcg {
	s := uint64(seed)
	if s == 0 {
		s = 0x9E3779B97F4A7C15
	}
	return &lcg{state: s}
}

func (g *lcg) next() uint64 {
	g.state = g.state*6364136223846793005 + 1442695040888963407
	return g.state >> 1
}
