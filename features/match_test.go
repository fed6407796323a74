package features

import "testing"

func TestMutualNNFindsReciprocalPairs(t *testing.T) {
	a := []Descriptor{{0, 0}, {10, 10}}
	b := []Descriptor{{10, 10}, {0, 0}}
	matches := MutualNN(a, b)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	want := map[Match]bool{{A: 0, B: 1}: true, {A: 1, B: 0}: true}
	for _, m := range matches {
		if !want[m] {
			t.Fatalf("unexpected match %+v", m)
		}
	}
}

func TestMutualNNEmptyInput(t *testing.T) {
	if m := MutualNN(nil, []Descriptor{{1}}); m != nil {
		t.Fatalf("expected no matches, got %v", m)
	}
}
