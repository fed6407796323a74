package raster

import (
	"image"
	"image/draw"

	ximage "golang.org/x/image/draw"
)

// ResizeGray resizes an 8-bit grayscale image to the given dimensions
// using bilinear interpolation.
func ResizeGray(src *image.Gray, w, h int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	ximage.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// ResizeNRGBA resizes a color image to the given dimensions using
// bilinear interpolation.
func ResizeNRGBA(src image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	ximage.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// FitWithinMax returns the (w, h) that scales (srcW, srcH) so its larger
// side equals maxDim, preserving aspect ratio and never upscaling.
func FitWithinMax(srcW, srcH, maxDim int) (w, h int) {
	if srcW <= 0 || srcH <= 0 {
		return srcW, srcH
	}
	if srcW <= maxDim && srcH <= maxDim {
		return srcW, srcH
	}
	if srcW >= srcH {
		w = maxDim
		h = int(float64(srcH) * float64(maxDim) / float64(srcW))
	} else {
		h = maxDim
		w = int(float64(srcW) * float64(maxDim) / float64(srcH))
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
