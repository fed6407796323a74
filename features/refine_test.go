package features

import "testing"

func TestCheckSufficientMatchesPassesWhenAllNeighborsMeetThreshold(t *testing.T) {
	refined := map[[2]int][]Match{
		{0, 1}: make([]Match, 5),
		{1, 2}: make([]Match, 4),
	}
	order := []int{0, 1, 2}
	if err := CheckSufficientMatches(refined, order); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestCheckSufficientMatchesFailsOnWeakNeighbor(t *testing.T) {
	refined := map[[2]int][]Match{
		{0, 1}: make([]Match, 5),
		{1, 2}: make([]Match, 1),
	}
	order := []int{0, 1, 2}
	err := CheckSufficientMatches(refined, order)
	if err == nil {
		t.Fatalf("expected InsufficientMatches error")
	}
	var im *InsufficientMatches
	if !asInsufficientMatches(err, &im) {
		t.Fatalf("expected *InsufficientMatches, got %T", err)
	}
	if im.Slide != 1 && im.Slide != 2 {
		t.Fatalf("unexpected offending slide %d", im.Slide)
	}
	if want := [2]int{1, 5}; im.Scores != want {
		t.Fatalf("worst pair scores = %v, want %v", im.Scores, want)
	}
}

func TestCheckSufficientMatchesBoundarySlideScoresPadWithSentinel(t *testing.T) {
	refined := map[[2]int][]Match{
		{0, 1}: make([]Match, 1),
	}
	order := []int{0, 1}
	err := CheckSufficientMatches(refined, order)
	var im *InsufficientMatches
	if !asInsufficientMatches(err, &im) {
		t.Fatalf("expected *InsufficientMatches, got %T", err)
	}
	if im.Slide != 0 {
		t.Fatalf("unexpected offending slide %d", im.Slide)
	}
	if want := [2]int{1, -1}; im.Scores != want {
		t.Fatalf("boundary slide scores = %v, want %v (single neighbor, sentinel padded)", im.Scores, want)
	}
}

func asInsufficientMatches(err error, out **InsufficientMatches) bool {
	im, ok := err.(*InsufficientMatches)
	if ok {
		*out = im
	}
	return ok
}
