package slide

import "testing"

func TestSelectLevelPicksLargestUnderMax(t *testing.T) {
	levels := []Dims{{W: 4000, H: 3000}, {W: 2000, H: 1500}, {W: 500, H: 375}}
	if got := SelectLevel(levels, 850); got != 2 {
		t.Fatalf("got level %d, want 2", got)
	}
}

func TestSelectLevelFallsBackToSmallest(t *testing.T) {
	levels := []Dims{{W: 4000, H: 3000}, {W: 2000, H: 1500}}
	if got := SelectLevel(levels, 100); got != 1 {
		t.Fatalf("got level %d, want 1 (smallest)", got)
	}
}

func TestGuessModality(t *testing.T) {
	if got := GuessModality(3, 8); got != Brightfield {
		t.Fatalf("8-bit RGB triplet should guess brightfield, got %v", got)
	}
	if got := GuessModality(4, 16); got != Fluorescence {
		t.Fatalf("4-channel 16-bit should guess fluorescence, got %v", got)
	}
	if got := GuessModality(1, 8); got != Fluorescence {
		t.Fatalf("single 8-bit channel should guess fluorescence, got %v", got)
	}
}

func TestDetectModalityMixedIsMulti(t *testing.T) {
	records := []*Record{{Modality: Brightfield}, {Modality: Fluorescence}}
	if got := DetectModality(records); got != Multi {
		t.Fatalf("got %v, want Multi", got)
	}
}

func TestDetectModalityUniform(t *testing.T) {
	records := []*Record{{Modality: Fluorescence}, {Modality: Fluorescence}}
	if got := DetectModality(records); got != Fluorescence {
		t.Fatalf("got %v, want Fluorescence", got)
	}
}
