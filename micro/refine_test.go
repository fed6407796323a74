package micro

import (
	"testing"

	"github.com/crobbins327/valis/warp"
)

type constSolver struct{ dx, dy float32 }

func (s constSolver) Solve(fixed, moving []uint8, rows, cols int) (fwd, bwd *warp.Field, err error) {
	f := warp.NewField(warp.Shape{Rows: rows, Cols: cols})
	b := warp.NewField(warp.Shape{Rows: rows, Cols: cols})
	for i := range f.Dx {
		f.Dx[i], f.Dy[i] = s.dx, s.dy
		b.Dx[i], b.Dy[i] = -s.dx, -s.dy
	}
	return f, b, nil
}

type zeroSolver struct{}

func (zeroSolver) Solve(fixed, moving []uint8, rows, cols int) (fwd, bwd *warp.Field, err error) {
	return warp.NewField(warp.Shape{Rows: rows, Cols: cols}), warp.NewField(warp.Shape{Rows: rows, Cols: cols}), nil
}

func flatImage(rows, cols int, val uint8) []uint8 {
	pix := make([]uint8, rows*cols)
	for i := range pix {
		pix[i] = val
	}
	return pix
}

func TestRefineWholeFrameAddsOntoExisting(t *testing.T) {
	rows, cols := 20, 20
	fixed := flatImage(rows, cols, 10)
	moving := flatImage(rows, cols, 20)
	existingShape := warp.Shape{Rows: rows, Cols: cols}
	existing := &Result{Fwd: warp.NewField(existingShape), Bwd: warp.NewField(existingShape)}
	for i := range existing.Fwd.Dx {
		existing.Fwd.Dx[i] = 5
	}

	opts := Options{TileSize: 512, TileOverlap: 128, MemoryBudgetBytes: 0}
	result, warnings, err := Refine(fixed, moving, rows, cols, existing, constSolver{dx: 2}, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if got := result.Fwd.Dx[0]; got != 7 {
		t.Fatalf("expected additive composition 5+2=7, got %v", got)
	}
}

func TestRefineZeroUpdateLeavesFieldUnchanged(t *testing.T) {
	rows, cols := 16, 16
	fixed := flatImage(rows, cols, 1)
	moving := flatImage(rows, cols, 1)
	shape := warp.Shape{Rows: rows, Cols: cols}
	existing := &Result{Fwd: warp.NewField(shape), Bwd: warp.NewField(shape)}
	for i := range existing.Fwd.Dx {
		existing.Fwd.Dx[i] = 3.5
		existing.Fwd.Dy[i] = -1.25
	}

	result, _, err := Refine(fixed, moving, rows, cols, existing, zeroSolver{}, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range existing.Fwd.Dx {
		if diff := result.Fwd.Dx[i] - existing.Fwd.Dx[i]; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("zero-update solver should leave field unchanged within 1e-6, got diff %v", diff)
		}
	}
}

func TestRefinePromotesToTiledModeUnderMemoryBudget(t *testing.T) {
	rows, cols := 64, 64
	fixed := flatImage(rows, cols, 1)
	moving := flatImage(rows, cols, 1)

	opts := Options{TileSize: 32, TileOverlap: 8, MemoryBudgetBytes: 1}
	result, warnings, err := Refine(fixed, moving, rows, cols, nil, constSolver{dx: 4, dy: -2}, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one OutOfMemory warning, got %d", len(warnings))
	}
	if _, ok := warnings[0].(*OutOfMemory); !ok {
		t.Fatalf("expected *OutOfMemory warning, got %T", warnings[0])
	}
	mid := (rows/2)*cols + cols/2
	if got := result.Fwd.Dx[mid]; got < 3.9 || got > 4.1 {
		t.Fatalf("stitched tiled field should recover the constant displacement near tile interiors, got %v", got)
	}
}

func TestRefineNoExistingActsAsStandalonePass(t *testing.T) {
	rows, cols := 10, 10
	fixed := flatImage(rows, cols, 1)
	moving := flatImage(rows, cols, 1)

	result, _, err := Refine(fixed, moving, rows, cols, nil, constSolver{dx: 1, dy: 1}, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Fwd.Dx[0] != 1 {
		t.Fatalf("standalone pass should just return the solver's field, got %v", result.Fwd.Dx[0])
	}
}
