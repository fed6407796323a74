package micro

import "testing"

func TestPlanTilesCoversFullFrame(t *testing.T) {
	tiles := PlanTiles(100, 130, 64, 16)
	if len(tiles) == 0 {
		t.Fatal("expected at least one tile")
	}
	covered := make([][]bool, 100)
	for i := range covered {
		covered[i] = make([]bool, 130)
	}
	for _, tl := range tiles {
		for y := tl.Y0; y < tl.Y0+tl.Rows; y++ {
			for x := tl.X0; x < tl.X0+tl.Cols; x++ {
				covered[y][x] = true
			}
		}
	}
	for y := 0; y < 100; y++ {
		for x := 0; x < 130; x++ {
			if !covered[y][x] {
				t.Fatalf("pixel (%d,%d) not covered by any tile", x, y)
			}
		}
	}
}

func TestPlanTilesClipsToFrame(t *testing.T) {
	tiles := PlanTiles(50, 50, 32, 8)
	for _, tl := range tiles {
		if tl.X0+tl.Cols > 50 || tl.Y0+tl.Rows > 50 {
			t.Fatalf("tile %+v exceeds 50x50 frame", tl)
		}
	}
}

func TestPadToMultiple(t *testing.T) {
	cases := map[int]int{16: 16, 17: 32, 512: 512, 1: 16}
	for n, want := range cases {
		if got := padToMultiple(n, 16); got != want {
			t.Errorf("padToMultiple(%d, 16) = %d, want %d", n, got, want)
		}
	}
}
