package nonrigid

import (
	"image"
	"image/color"
	"testing"

	"github.com/crobbins327/valis/warp"
)

func grayMask(rows, cols int, on func(x, y int) bool) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if on(x, y) {
				g.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return g
}

func TestTissueUnionMaskReturnsOverlapBBox(t *testing.T) {
	regShape := warp.Shape{Rows: 20, Cols: 20}
	m1 := grayMask(20, 20, func(x, y int) bool { return x >= 2 && x < 15 && y >= 2 && y < 15 })
	m2 := grayMask(20, 20, func(x, y int) bool { return x >= 5 && x < 18 && y >= 5 && y < 18 })

	mask, bbox, err := TissueUnionMask([]*image.Gray{m1, m2}, regShape)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mask == nil {
		t.Fatal("expected a non-nil mask")
	}
	if bbox.Empty() {
		t.Fatal("expected a non-empty bbox for overlapping masks")
	}
}

func TestTissueUnionMaskRejectsEmptyOverlap(t *testing.T) {
	// TissueUnionMask always uses slide 0 as ComputeCropMasks' reference,
	// which is the crop-region fallback when the hysteresis overlap is
	// empty (§8). An all-background slide 0 makes both empty.
	regShape := warp.Shape{Rows: 10, Cols: 10}
	m1 := grayMask(10, 10, func(x, y int) bool { return false })
	m2 := grayMask(10, 10, func(x, y int) bool { return x >= 7 })

	_, _, err := TissueUnionMask([]*image.Gray{m1, m2}, regShape)
	if err != ErrEmptyTissueMask {
		t.Fatalf("expected ErrEmptyTissueMask, got %v", err)
	}
}
