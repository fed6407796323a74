package features

import "math"

// MutualNN returns the mutual-nearest-neighbor matches between two
// descriptor sets in Euclidean descriptor space: (i, j) survives only
// if j is i's nearest neighbor in B and i is j's nearest neighbor in A
// (§4.4).
func MutualNN(a, b []Descriptor) []Match {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	nnAtoB := nearestNeighbors(a, b)
	nnBtoA := nearestNeighbors(b, a)

	var matches []Match
	for i, j := range nnAtoB {
		if j < 0 {
			continue
		}
		if nnBtoA[j] == i {
			matches = append(matches, Match{A: i, B: j})
		}
	}
	return matches
}

// nearestNeighbors returns, for each descriptor in from, the index of
// its nearest neighbor in to (-1 if to is empty).
func nearestNeighbors(from, to []Descriptor) []int {
	out := make([]int, len(from))
	for i, d := range from {
		best := -1
		bestDist := math.Inf(1)
		for j, e := range to {
			dist := sqDist(d, e)
			if dist < bestDist {
				bestDist = dist
				best = j
			}
		}
		out[i] = best
	}
	return out
}

func sqDist(a, b Descriptor) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
