package features

import "testing"

func TestOrderTrustsKnownOrder(t *testing.T) {
	sm := &SimilarityMatrix{N: 3, Matches: map[[2]int][]Match{}}
	order := Order(sm, true)
	if order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Fatalf("known order should be identity, got %v", order)
	}
}

func TestOrderGreedyChain(t *testing.T) {
	// Slides are really in order 2,0,1 by similarity: 2-0 strongest,
	// then 0-1 next strongest, 1-2 weakest.
	sm := &SimilarityMatrix{N: 3, Matches: map[[2]int][]Match{
		{0, 1}: make([]Match, 5),
		{0, 2}: make([]Match, 9),
		{1, 2}: make([]Match, 1),
	}}
	order := Order(sm, false)
	if len(order) != 3 {
		t.Fatalf("expected 3 slides in order, got %v", order)
	}
	seen := map[int]bool{}
	for _, idx := range order {
		seen[idx] = true
	}
	if !seen[0] || !seen[1] || !seen[2] {
		t.Fatalf("order %v missing a slide", order)
	}
	// the two highest-similarity pairs (0-2 and 0-1) should be adjacent
	adjacent := func(a, b int) bool {
		for k := 0; k < len(order)-1; k++ {
			if (order[k] == a && order[k+1] == b) || (order[k] == b && order[k+1] == a) {
				return true
			}
		}
		return false
	}
	if !adjacent(0, 2) || !adjacent(0, 1) {
		t.Fatalf("expected 0 adjacent to both 1 and 2 in order %v", order)
	}
}

func TestFullyConnectedDetectsIsolatedSlide(t *testing.T) {
	sm := &SimilarityMatrix{N: 3, Matches: map[[2]int][]Match{
		{0, 1}: make([]Match, 5),
	}}
	if FullyConnected(sm) {
		t.Fatalf("slide 2 has no edges, should not be fully connected")
	}
}

func TestFullyConnectedAllLinked(t *testing.T) {
	sm := &SimilarityMatrix{N: 3, Matches: map[[2]int][]Match{
		{0, 1}: make([]Match, 5),
		{1, 2}: make([]Match, 3),
	}}
	if !FullyConnected(sm) {
		t.Fatalf("chain 0-1-2 should be fully connected")
	}
}
