package raster

import "testing"

func TestSampleField2Bilinear(t *testing.T) {
	rows, cols := 2, 2
	dx := []float32{0, 10, 0, 10}
	dy := []float32{0, 0, 10, 10}
	vx, vy := SampleField2(dx, dy, rows, cols, 0.5, 0.5)
	if vx < 4.9 || vx > 5.1 {
		t.Fatalf("expected midpoint x ~5, got %v", vx)
	}
	if vy < 4.9 || vy > 5.1 {
		t.Fatalf("expected midpoint y ~5, got %v", vy)
	}
}

func TestResizeGray32Upsample(t *testing.T) {
	src := []float32{0, 10, 20, 30}
	out := ResizeGray32(src, 2, 2, 4, 4)
	if len(out) != 16 {
		t.Fatalf("expected 16 samples, got %d", len(out))
	}
}

func TestFitWithinMax(t *testing.T) {
	w, h := FitWithinMax(4000, 2000, 1000)
	if w != 1000 || h != 500 {
		t.Fatalf("got (%d,%d)", w, h)
	}
	w, h = FitWithinMax(500, 300, 1000)
	if w != 500 || h != 300 {
		t.Fatalf("expected no upscale, got (%d,%d)", w, h)
	}
}
