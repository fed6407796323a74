package warp

import (
	"image"
	"image/color"
	"testing"
)

func TestWarpImageTranslation(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	src.SetGray(2, 3, color.Gray{Y: 200})

	m := Translation3(1, 0) // dst = src shifted +1 in x
	out, err := WarpImage(src, m, nil, Shape{Rows: 10, Cols: 10}, Shape{Rows: 10, Cols: 10}, Shape{Rows: 10, Cols: 10}, nil, 0, Nearest)
	if err != nil {
		t.Fatal(err)
	}
	// dst pixel (3,3) pulls from src (3-1, 3) = (2,3).
	if out.GrayAt(3, 3).Y != 200 {
		t.Fatalf("expected warped pixel to carry source value, got %d", out.GrayAt(3, 3).Y)
	}
}

func TestWarpImageBackgroundFill(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 5, 5))
	m := Identity3()
	out, err := WarpImage(src, m, nil, Shape{Rows: 5, Cols: 5}, Shape{Rows: 5, Cols: 5}, Shape{Rows: 10, Cols: 10}, nil, 77, Nearest)
	if err != nil {
		t.Fatal(err)
	}
	if out.GrayAt(9, 9).Y != 77 {
		t.Fatalf("expected background fill outside source bounds, got %d", out.GrayAt(9, 9).Y)
	}
}
