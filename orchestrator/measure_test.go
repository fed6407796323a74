package orchestrator

import (
	"math"
	"testing"
)

func TestWeightedMeanWeightsByMatchCount(t *testing.T) {
	// slide A's median of 10 carries 1 match, slide B's median of 0
	// carries 9: the match-weighted mean should sit close to B's value,
	// not the unweighted midpoint of 5.
	medians := []float64{10, 0}
	weights := []int{1, 9}
	got := WeightedMean(medians, weights)
	if want := 1.0; got != want {
		t.Fatalf("WeightedMean = %v, want %v", got, want)
	}
}

func TestWeightedMeanIgnoresZeroWeightRows(t *testing.T) {
	medians := []float64{10, 20}
	weights := []int{0, 0}
	got := WeightedMean(medians, weights)
	if !math.IsNaN(got) {
		t.Fatalf("WeightedMean with no weight should be NaN, got %v", got)
	}
}
