package warp

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestIdentityIsPureTranslation(t *testing.T) {
	if !IsPureTranslation(Identity3(), 1e-9) {
		t.Fatal("identity matrix should be a pure translation")
	}
	tr := Translation3(12, -4)
	if !IsPureTranslation(tr, 1e-9) {
		t.Fatal("pure translation matrix should be reported as such")
	}
}

func TestComposeInvertRoundTrip(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		0.8, -0.2, 10,
		0.2, 0.8, -5,
		0, 0, 1,
	})
	inv, err := Invert(m)
	if err != nil {
		t.Fatal(err)
	}
	p := r2.Vec{X: 37, Y: -12}
	warped := ApplyPoint(m, p)
	back := ApplyPoint(inv, warped)
	if math.Hypot(back.X-p.X, back.Y-p.Y) > 1e-6 {
		t.Fatalf("round trip mismatch: got %v want %v", back, p)
	}
}

func TestRescaleRigidScalingLaw(t *testing.T) {
	m := Translation3(5, 5)
	fit := Shape{Rows: 100, Cols: 100}
	bigger := Shape{Rows: 200, Cols: 200}

	rescaled := RescaleRigid(m, fit, fit, bigger, bigger)

	p := r2.Vec{X: 20, Y: 20}
	gotBig := ApplyPoint(rescaled, p)

	// A point scaled into the bigger frame, warped at fit scale, then
	// scaled back out, should match the original-scale warp within a
	// pixel.
	halfScale := ScaleMatrix(0.5, 0.5)
	pSmall := ApplyPoint(halfScale, p)
	gotSmall := ApplyPoint(m, pSmall)
	doubleScale := ScaleMatrix(2, 2)
	want := ApplyPoint(doubleScale, gotSmall)

	if math.Hypot(gotBig.X-want.X, gotBig.Y-want.Y) > 1.0 {
		t.Fatalf("scaling law mismatch: got %v want %v", gotBig, want)
	}
}

func TestReflectionsFourVariants(t *testing.T) {
	refl := Reflections(Shape{Rows: 10, Cols: 20})
	if len(refl) != 4 {
		t.Fatalf("expected 4 reflection variants, got %d", len(refl))
	}
	p := r2.Vec{X: 3, Y: 4}
	identityOut := ApplyPoint(refl[0], p)
	if identityOut != p {
		t.Fatalf("identity reflection should not move points, got %v", identityOut)
	}
	flipX := ApplyPoint(refl[1], p)
	if flipX.X != 17 || flipX.Y != 4 {
		t.Fatalf("flip-x mismatch: got %v", flipX)
	}
}
