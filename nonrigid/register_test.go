package nonrigid

import (
	"testing"

	"github.com/crobbins327/valis/warp"
)

// constSolver returns a fixed displacement regardless of its input
// images, letting tests assert on composition arithmetic without a real
// dense-matching implementation.
type constSolver struct {
	dx, dy float32
}

func (s constSolver) Solve(fixed, moving []uint8, rows, cols int) (fwd, bwd *warp.Field, err error) {
	f := warp.NewField(warp.Shape{Rows: rows, Cols: cols})
	b := warp.NewField(warp.Shape{Rows: rows, Cols: cols})
	for i := range f.Dx {
		f.Dx[i], f.Dy[i] = s.dx, s.dy
		b.Dx[i], b.Dy[i] = -s.dx, -s.dy
	}
	return f, b, nil
}

type failSolver struct{}

func (failSolver) Solve(fixed, moving []uint8, rows, cols int) (fwd, bwd *warp.Field, err error) {
	return nil, nil, errFailure
}

var errFailure = errTestSolve{}

type errTestSolve struct{}

func (errTestSolve) Error() string { return "synthetic solver failure" }

func flatImage(rows, cols int, val uint8) []uint8 {
	pix := make([]uint8, rows*cols)
	for i := range pix {
		pix[i] = val
	}
	return pix
}

func TestSerialComposeAccumulatesAlongChain(t *testing.T) {
	rows, cols := 10, 10
	regShape := warp.Shape{Rows: rows, Cols: cols}
	bbox := warp.Rect{X: 0, Y: 0, W: cols, H: rows}
	images := map[int][]uint8{
		0: flatImage(rows, cols, 50),
		1: flatImage(rows, cols, 60),
		2: flatImage(rows, cols, 70),
	}
	order := []int{0, 1, 2}
	solver := constSolver{dx: 1, dy: 0}

	results, warnings := SerialCompose(order, 0, images, rows, cols, regShape, bbox, solver, true, 0)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if results[0].Fwd.Dx[0] != 0 {
		t.Fatalf("reference field must stay identity, got dx=%v", results[0].Fwd.Dx[0])
	}
	if got := results[1].Fwd.Dx[0]; got != 1 {
		t.Fatalf("slide 1 fwd dx = %v, want 1", got)
	}
	if got := results[2].Fwd.Dx[0]; got != 2 {
		t.Fatalf("slide 2 fwd dx should accumulate to 2, got %v", got)
	}
}

func TestSerialComposeFalseDoesNotChainThroughReference(t *testing.T) {
	rows, cols := 8, 8
	regShape := warp.Shape{Rows: rows, Cols: cols}
	bbox := warp.Rect{X: 0, Y: 0, W: cols, H: rows}
	images := map[int][]uint8{
		0: flatImage(rows, cols, 10),
		1: flatImage(rows, cols, 20),
		2: flatImage(rows, cols, 30),
	}
	order := []int{0, 1, 2}
	solver := constSolver{dx: 3, dy: 0}

	results, _ := SerialCompose(order, 0, images, rows, cols, regShape, bbox, solver, false, 0)
	if got := results[1].Fwd.Dx[0]; got != 3 {
		t.Fatalf("slide 1 fwd dx = %v, want 3", got)
	}
	if got := results[2].Fwd.Dx[0]; got != 3 {
		t.Fatalf("non-composed slide 2 should not chain onto slide 1's field, got %v", got)
	}
}

func TestAlignToReferenceIsIndependentOfOrder(t *testing.T) {
	rows, cols := 6, 6
	regShape := warp.Shape{Rows: rows, Cols: cols}
	bbox := warp.Rect{X: 0, Y: 0, W: cols, H: rows}
	images := map[int][]uint8{
		0: flatImage(rows, cols, 5),
		1: flatImage(rows, cols, 15),
		2: flatImage(rows, cols, 25),
	}
	solver := constSolver{dx: 2, dy: 1}

	resultsA, warnings := AlignToReference([]int{0, 1, 2}, 0, images, rows, cols, regShape, bbox, solver, 0)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	resultsB, _ := AlignToReference([]int{0, 2, 1}, 0, images, rows, cols, regShape, bbox, solver, 0)

	for _, idx := range []int{1, 2} {
		if resultsA[idx].Fwd.Dx[0] != resultsB[idx].Fwd.Dx[0] {
			t.Fatalf("slide %d field depends on order traversal", idx)
		}
	}
	if resultsA[1].Fwd.Dx[0] != 2 {
		t.Fatalf("align-to-reference should not compose across slides, got %v", resultsA[1].Fwd.Dx[0])
	}
}

func TestSerialComposeBboxScoping(t *testing.T) {
	rows, cols := 10, 10
	regShape := warp.Shape{Rows: rows, Cols: cols}
	bbox := warp.Rect{X: 2, Y: 2, W: 4, H: 4}
	images := map[int][]uint8{
		0: flatImage(rows, cols, 1),
		1: flatImage(rows, cols, 1),
	}
	solver := constSolver{dx: 1, dy: 1}

	results, _ := SerialCompose([]int{0, 1}, 0, images, rows, cols, regShape, bbox, solver, true, 0)
	f := results[1].Fwd
	if f.Rows != rows || f.Cols != cols {
		t.Fatalf("result field should be padded back to regShape, got %dx%d", f.Rows, f.Cols)
	}
	if f.Dx[0] != 0 {
		t.Fatalf("outside bbox should stay zero, got %v", f.Dx[0])
	}
	inside := (bbox.Y+1)*cols + (bbox.X + 1)
	if f.Dx[inside] != 1 {
		t.Fatalf("inside bbox should carry the solved displacement, got %v", f.Dx[inside])
	}
}

func TestSerialComposeSolverFailureIsNonFatal(t *testing.T) {
	rows, cols := 6, 6
	regShape := warp.Shape{Rows: rows, Cols: cols}
	bbox := warp.Rect{X: 0, Y: 0, W: cols, H: rows}
	images := map[int][]uint8{
		0: flatImage(rows, cols, 1),
		1: flatImage(rows, cols, 1),
	}

	results, warnings := SerialCompose([]int{0, 1}, 0, images, rows, cols, regShape, bbox, failSolver{}, true, 0)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %d", len(warnings))
	}
	if _, ok := warnings[0].(*SolverFailed); !ok {
		t.Fatalf("warning should be *SolverFailed, got %T", warnings[0])
	}
	if results[1] == nil {
		t.Fatal("slide 1 should still have an (identity) result despite the solver failure")
	}
	for _, v := range results[1].Fwd.Dx {
		if v != 0 {
			t.Fatalf("failed pair should fall back to identity displacement, got %v", v)
		}
	}
}
