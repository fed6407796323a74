package rigid

import (
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/crobbins327/valis/warp"
)

func TestFullRigidChainComposesThroughReference(t *testing.T) {
	// Three identical-shape slides; slide 1 is the reference. Slide 0
	// is translated +10 in x relative to slide 1; slide 2 is translated
	// -5 in x relative to slide 1. FullRigid should compose each pair's
	// fit onto the reference's identity matrix.
	shape := warp.Shape{Rows: 100, Cols: 100}
	shapeOf := func(int) warp.Shape { return shape }

	basePts := []r2.Vec{{X: 10, Y: 10}, {X: 90, Y: 10}, {X: 10, Y: 90}, {X: 90, Y: 90}}

	corr := func(fixed, moving int) ([]r2.Vec, []r2.Vec) {
		// moving's points are basePts shifted by (moving-fixed)*-shift
		// so that moving + shift == fixed in the reference frame.
		shift := shiftFor(fixed, moving)
		movingPts := make([]r2.Vec, len(basePts))
		for i, p := range basePts {
			movingPts[i] = r2.Vec{X: p.X - shift, Y: p.Y}
		}
		return basePts, movingPts
	}

	order := []int{0, 1, 2}
	m, fixedNeighbor, err := FullRigid(order, 1, corr, shapeOf, Similarity, false, 1e-6)
	if err != nil {
		t.Fatalf("FullRigid: %v", err)
	}
	if fixedNeighbor[1] != -1 {
		t.Fatalf("reference should have no fixed neighbor, got %d", fixedNeighbor[1])
	}
	if fixedNeighbor[0] != 1 || fixedNeighbor[2] != 1 {
		t.Fatalf("unexpected neighbor assignment: %v", fixedNeighbor)
	}

	p := r2.Vec{X: 50, Y: 50}
	got0 := warp.ApplyPoint(m[0], p)
	want0 := r2.Vec{X: 50 + shiftFor(1, 0), Y: 50}
	if diff := (got0.X - want0.X); diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("slide 0 mapped to %v, want %v", got0, want0)
	}
}

func shiftFor(fixed, moving int) float64 {
	shifts := map[int]float64{0: 10, 1: 0, 2: -5}
	return shifts[moving] - shifts[fixed]
}

func TestCanonicalShapeReferenceIsPureTranslation(t *testing.T) {
	shape := warp.Shape{Rows: 100, Cols: 100}
	shapeOf := func(int) warp.Shape { return shape }

	m := map[int]*mat.Dense{
		0: warp.Compose(warp.Translation3(20, 0), warp.Identity3()),
		1: warp.Identity3(),
	}
	regShape, final := CanonicalShape(shapeOf, m)
	if regShape.Rows < 100 || regShape.Cols < 120 {
		t.Fatalf("unexpected canonical shape %+v", regShape)
	}
	if !warp.IsPureTranslation(final[1], 1e-9) {
		t.Fatalf("reference matrix should be a pure translation after canonical shift")
	}
}
