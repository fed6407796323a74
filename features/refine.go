package features

// RefineNeighborMatches re-filters each non-boundary slide's match set
// against its stack neighbor, using the initial rigid fit (method
// FilterRANSAC) so outliers consistent with a different permutation are
// discarded (§4.4 "Neighbor-refined matches").
func RefineNeighborMatches(sm *SimilarityMatrix, sets []FeatureSet, order []int, tolerance float64, iterations int, seed int64) map[[2]int][]Match {
	refined := make(map[[2]int][]Match)
	for k := 0; k < len(order)-1; k++ {
		i, j := order[k], order[k+1]
		lo, hi := i, j
		if lo > hi {
			lo, hi = hi, lo
		}
		raw := sm.Matches[[2]int{lo, hi}]
		refined[[2]int{lo, hi}] = Filter(sets[lo], sets[hi], raw, FilterRANSAC, tolerance, iterations, seed)
	}
	return refined
}

// CheckSufficientMatches validates that every slide has at least
// MinInlierMatches inlier matches to each of its candidate neighbors in
// the stack order, returning InsufficientMatches for the first slide
// that fails (§4.4 failure mode), reporting that slide's two worst
// neighbor-pair scores (§7).
func CheckSufficientMatches(refined map[[2]int][]Match, order []int) error {
	const unset = -1
	minCount := make(map[int]int, len(order))
	pairScores := make(map[int][]int, len(order))
	for _, idx := range order {
		minCount[idx] = unset
	}

	update := func(idx, n int) {
		if minCount[idx] == unset || n < minCount[idx] {
			minCount[idx] = n
		}
		pairScores[idx] = append(pairScores[idx], n)
	}
	for k := 0; k < len(order)-1; k++ {
		i, j := order[k], order[k+1]
		lo, hi := i, j
		if lo > hi {
			lo, hi = hi, lo
		}
		n := len(refined[[2]int{lo, hi}])
		update(i, n)
		update(j, n)
	}

	for _, idx := range order {
		if minCount[idx] == unset || minCount[idx] < MinInlierMatches {
			return &InsufficientMatches{Slide: idx, Scores: worstTwo(pairScores[idx])}
		}
	}
	return nil
}

// worstTwo returns the two lowest values in scores, ascending, padded
// with -1 when a boundary slide has only one candidate neighbor.
func worstTwo(scores []int) [2]int {
	out := [2]int{-1, -1}
	for _, n := range scores {
		switch {
		case out[0] == -1 || n < out[0]:
			out[1] = out[0]
			out[0] = n
		case out[1] == -1 || n < out[1]:
			out[1] = n
		}
	}
	return out
}
