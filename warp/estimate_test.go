package warp

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestEstimateSimilarityRecoversKnownTransform(t *testing.T) {
	src := []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}}
	known := Compose(Translation3(5, -3), ScaleMatrix(2, 2))
	dst := ApplyPoints(known, src)

	m, err := EstimateSimilarity(src, dst)
	if err != nil {
		t.Fatalf("EstimateSimilarity: %v", err)
	}
	for i := range src {
		d := ResidualDistance(m, src[i], dst[i])
		if d > 1e-6 {
			t.Fatalf("point %d residual %v too large", i, d)
		}
	}
}
