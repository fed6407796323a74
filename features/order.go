package features

// Order derives the linear stack order that approximately maximizes the
// sum of similarities between consecutive slides (§4.4). If
// orderIsKnown, the caller's filename-index order is trusted verbatim.
// Otherwise: seed with the highest-similarity pair, then greedily
// extend whichever end of the chain has the highest similarity to any
// unvisited slide, breaking ties by lower index.
func Order(sm *SimilarityMatrix, orderIsKnown bool) []int {
	n := sm.N
	if orderIsKnown || n <= 1 {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		return order
	}

	seedI, seedJ := seedPair(sm)
	chain := []int{seedI, seedJ}
	visited := map[int]bool{seedI: true, seedJ: true}

	for len(chain) < n {
		head, tail := chain[0], chain[len(chain)-1]
		bestScore := -1
		bestIdx := -1
		bestAtHead := false

		for k := 0; k < n; k++ {
			if visited[k] {
				continue
			}
			// k ascends, so the first candidate to reach a given score
			// already has the lowest index; strict ">" alone enforces
			// the "ties broken by lower index" rule.
			hs := sm.Count(head, k)
			ts := sm.Count(tail, k)
			if hs > bestScore {
				bestScore, bestIdx, bestAtHead = hs, k, true
			}
			if ts > bestScore {
				bestScore, bestIdx, bestAtHead = ts, k, false
			}
		}

		if bestAtHead {
			chain = append([]int{bestIdx}, chain...)
		} else {
			chain = append(chain, bestIdx)
		}
		visited[bestIdx] = true
	}
	return chain
}

func seedPair(sm *SimilarityMatrix) (int, int) {
	bestI, bestJ, best := 0, 1, -1
	for i := 0; i < sm.N; i++ {
		for j := i + 1; j < sm.N; j++ {
			c := sm.Count(i, j)
			if c > best {
				best, bestI, bestJ = c, i, j
			}
		}
	}
	return bestI, bestJ
}
