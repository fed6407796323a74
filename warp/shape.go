package warp

import "gonum.org/v1/gonum/spatial/r2"

// Shape is a (rows, cols) image extent, used in preference to
// (width, height) throughout this package.
type Shape struct {
	Rows, Cols int
}

// Rect is an axis-aligned bounding box in (x, y, width, height) form, the
// xywh convention used for every bounding box in this package (mask
// boxes, non-rigid region boxes, crop boxes).
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p lies within r.
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= float64(r.X) && p.X < float64(r.X+r.W) &&
		p.Y >= float64(r.Y) && p.Y < float64(r.Y+r.H)
}

// Empty reports whether r has zero area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// CornersOf returns the four corners of a Rows×Cols image, in (col, row)
// i.e. (x, y) order, starting at the origin and proceeding clockwise.
func CornersOf(s Shape) []r2.Vec {
	w, h := float64(s.Cols), float64(s.Rows)
	return []r2.Vec{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: w, Y: h},
		{X: 0, Y: h},
	}
}

// boundingBox returns the tight axis-aligned bounding box of pts, snapped
// outward to integer pixel coordinates.
func boundingBox(pts []r2.Vec) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	x0, y0 := floorInt(minX), floorInt(minY)
	x1, y1 := ceilInt(maxX), ceilInt(maxY)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func floorInt(v float64) int {
	i := int(v)
	if v < float64(i) {
		i--
	}
	return i
}

func ceilInt(v float64) int {
	i := int(v)
	if v > float64(i) {
		i++
	}
	return i
}
