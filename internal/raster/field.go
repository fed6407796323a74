package raster

// SampleField2 bilinearly samples two co-located row-major float32 bands
// (rows×cols) at image coordinate (x, y), clamping to the border. This is
// the point-sampling primitive behind Field.At.
func SampleField2(bandX, bandY []float32, rows, cols int, x, y float64) (vx, vy float32) {
	if rows == 0 || cols == 0 {
		return 0, 0
	}
	x0f, y0f := clamp(x, 0, float64(cols-1)), clamp(y, 0, float64(rows-1))
	x0 := int(x0f)
	y0 := int(y0f)
	x1 := min(x0+1, cols-1)
	y1 := min(y0+1, rows-1)
	fx := x0f - float64(x0)
	fy := y0f - float64(y0)

	i00 := y0*cols + x0
	i10 := y0*cols + x1
	i01 := y1*cols + x0
	i11 := y1*cols + x1

	vx = bilerp(bandX[i00], bandX[i10], bandX[i01], bandX[i11], fx, fy)
	vy = bilerp(bandY[i00], bandY[i10], bandY[i01], bandY[i11], fx, fy)
	return vx, vy
}

func bilerp(v00, v10, v01, v11 float32, fx, fy float64) float32 {
	top := float64(v00)*(1-fx) + float64(v10)*fx
	bot := float64(v01)*(1-fx) + float64(v11)*fx
	return float32(top*(1-fy) + bot*fy)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ResizeGray32 resizes a single-band row-major float32 raster from
// (srcRows, srcCols) to (dstRows, dstCols) with bilinear interpolation.
// Used to resize displacement-field bands, which golang.org/x/image/draw
// cannot do directly since it operates on image.Image (integer) pixels.
func ResizeGray32(src []float32, srcRows, srcCols, dstRows, dstCols int) []float32 {
	out := make([]float32, dstRows*dstCols)
	if srcRows == 0 || srcCols == 0 || dstRows == 0 || dstCols == 0 {
		return out
	}
	sx := float64(srcCols) / float64(dstCols)
	sy := float64(srcRows) / float64(dstRows)
	for row := 0; row < dstRows; row++ {
		sy0 := (float64(row)+0.5)*sy - 0.5
		for col := 0; col < dstCols; col++ {
			sx0 := (float64(col)+0.5)*sx - 0.5
			out[row*dstCols+col] = sampleOne(src, srcRows, srcCols, sx0, sy0)
		}
	}
	return out
}

func sampleOne(band []float32, rows, cols int, x, y float64) float32 {
	x0f, y0f := clamp(x, 0, float64(cols-1)), clamp(y, 0, float64(rows-1))
	x0 := int(x0f)
	y0 := int(y0f)
	x1 := min(x0+1, cols-1)
	y1 := min(y0+1, rows-1)
	fx := x0f - float64(x0)
	fy := y0f - float64(y0)
	v00 := band[y0*cols+x0]
	v10 := band[y0*cols+x1]
	v01 := band[y1*cols+x0]
	v11 := band[y1*cols+x1]
	return bilerp(v00, v10, v01, v11, fx, fy)
}
