package raster

import "testing"

func TestHannWindowEndsAtZero(t *testing.T) {
	w := HannWindow1D(8)
	if w[0] != 0 || w[7] != 0 {
		t.Fatalf("expected Hann window to vanish at edges, got %v", w)
	}
}

func TestBlenderSingleTileRecoversValue(t *testing.T) {
	b := NewBlender(10, 10)
	dx := make([]float32, 16)
	dy := make([]float32, 16)
	for i := range dx {
		dx[i] = 3
		dy[i] = -2
	}
	b.AddTile(2, 2, 4, 4, dx, dy)
	gx, gy := b.Finish()
	i := 4*10 + 4
	if gx[i] < 2.9 || gx[i] > 3.1 {
		t.Fatalf("expected dx ~3 at center, got %v", gx[i])
	}
	if gy[i] < -2.1 || gy[i] > -1.9 {
		t.Fatalf("expected dy ~-2 at center, got %v", gy[i])
	}
}

func TestBlenderOverlapAverages(t *testing.T) {
	b := NewBlender(10, 1)
	a := make([]float32, 6)
	c := make([]float32, 6)
	for i := range a {
		a[i] = 1
		c[i] = 3
	}
	b.AddTile(0, 0, 6, 1, a, a)
	b.AddTile(0, 3, 6, 1, c, c)
	gx, _ := b.Finish()
	// Middle of the overlap (rows 3..5) should land between the two tile values.
	if gx[4] <= 1 || gx[4] >= 3 {
		t.Fatalf("expected blended value strictly between 1 and 3, got %v", gx[4])
	}
}
