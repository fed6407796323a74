package warp

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestWarpPolygonSubdividesLongEdges(t *testing.T) {
	geom := Polygon{Points: []r2.Vec{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}}
	identity := func(pts []r2.Vec) []r2.Vec { return pts }

	out, err := WarpPolygon(geom, identity, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Points) <= len(geom.Points) {
		t.Fatalf("expected subdivision to add vertices, got %d", len(out.Points))
	}
}

func TestWarpPolygonRejectsDegenerate(t *testing.T) {
	geom := Polygon{Points: []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	_, err := WarpPolygon(geom, func(p []r2.Vec) []r2.Vec { return p }, 0)
	if err != ErrBadPolygon {
		t.Fatalf("expected ErrBadPolygon, got %v", err)
	}
}
