package raster

import "math"

// HannWindow1D returns the n-sample symmetric Hann window, w[i] =
// 0.5*(1-cos(2*pi*i/(n-1))). For n<=1 it returns a constant window of 1s.
func HannWindow1D(n int) []float64 {
	w := make([]float64, n)
	if n <= 1 {
		for i := range w {
			w[i] = 1
		}
		return w
	}
	for i := 0; i < n; i++ {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// Blender accumulates weighted tile contributions over a full-frame
// float32 raster using a separable 2D Hann window per tile, the chosen
// edge-blending method for tiled micro-registration.
type Blender struct {
	rows, cols int
	sumX, sumY []float64
	weight     []float64
}

// NewBlender allocates a blender for a full frame of the given shape.
func NewBlender(rows, cols int) *Blender {
	return &Blender{
		rows: rows, cols: cols,
		sumX:   make([]float64, rows*cols),
		sumY:   make([]float64, rows*cols),
		weight: make([]float64, rows*cols),
	}
}

// AddTile blends a tile's (dx, dy) bands, of tileRows×tileCols, placed at
// (x0, y0) in the full frame, weighted by a 2D Hann window so overlapping
// tile margins fade smoothly into one another.
func (b *Blender) AddTile(x0, y0, tileRows, tileCols int, dx, dy []float32) {
	wy := HannWindow1D(tileRows)
	wx := HannWindow1D(tileCols)
	for ty := 0; ty < tileRows; ty++ {
		fy := y0 + ty
		if fy < 0 || fy >= b.rows {
			continue
		}
		for tx := 0; tx < tileCols; tx++ {
			fx := x0 + tx
			if fx < 0 || fx >= b.cols {
				continue
			}
			w := wy[ty] * wx[tx]
			ti := ty*tileCols + tx
			fi := fy*b.cols + fx
			b.sumX[fi] += w * float64(dx[ti])
			b.sumY[fi] += w * float64(dy[ti])
			b.weight[fi] += w
		}
	}
}

// Finish returns the weighted-average (dx, dy) bands across the full
// frame; cells with zero accumulated weight are zero.
func (b *Blender) Finish() (dx, dy []float32) {
	dx = make([]float32, len(b.sumX))
	dy = make([]float32, len(b.sumY))
	for i := range b.sumX {
		if b.weight[i] == 0 {
			continue
		}
		dx[i] = float32(b.sumX[i] / b.weight[i])
		dy[i] = float32(b.sumY[i] / b.weight[i])
	}
	return dx, dy
}
