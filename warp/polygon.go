package warp

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Polygon is a closed ring of vertices; the last vertex is implicitly
// connected back to the first.
type Polygon struct {
	Points []r2.Vec
}

// WarpPolygon implements the warp_polygon primitive: it subdivides edges
// longer than maxSegment before warping, since a non-rigid warp bends a
// straight edge, then applies warpFn (any point-warp, e.g.
// Chain.ToCanonical or WarpFromTo) to every vertex and reassembles the
// ring. maxSegment <= 0 disables subdivision.
func WarpPolygon(geom Polygon, warpFn func([]r2.Vec) []r2.Vec, maxSegment float64) (Polygon, error) {
	if len(geom.Points) < 3 {
		return Polygon{}, ErrBadPolygon
	}
	subdivided := subdivide(geom.Points, maxSegment)
	warped := warpFn(subdivided)
	return Polygon{Points: warped}, nil
}

// subdivide inserts evenly spaced intermediate vertices along every edge
// of a closed ring so no segment exceeds maxSegment in length.
func subdivide(pts []r2.Vec, maxSegment float64) []r2.Vec {
	if maxSegment <= 0 {
		return append([]r2.Vec(nil), pts...)
	}
	n := len(pts)
	out := make([]r2.Vec, 0, n)
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		out = append(out, a)
		d := r2.Norm(b.Sub(a))
		if d <= maxSegment {
			continue
		}
		steps := int(math.Ceil(d / maxSegment))
		for s := 1; s < steps; s++ {
			t := float64(s) / float64(steps)
			out = append(out, r2.Vec{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t})
		}
	}
	return out
}
