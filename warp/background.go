package warp

import (
	"image"
	"image/color"
	"math"
)

// BackgroundColor samples the pixel used to fill exterior ("outside
// source") regions after a warp. For brightfield images it is the
// brightest pixel in a perceptual lightness space; for fluorescence it is
// the darkest pixel across channels, per §4.1.
//
// CAM16-UCS lightness would need a full CIECAM appearance model with no
// ready library, so this uses CIE L* instead — also a perceptually-
// uniform lightness, computed directly from sRGB via the standard D65
// luminance weights.
func BackgroundColor(img image.Image, fluorescence bool) color.Color {
	b := img.Bounds()
	if b.Empty() {
		return color.Gray{Y: 0}
	}

	best := img.At(b.Min.X, b.Min.Y)
	bestL := lStar(best)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			l := lStar(c)
			if fluorescence {
				if l < bestL {
					bestL, best = l, c
				}
			} else {
				if l > bestL {
					bestL, best = l, c
				}
			}
		}
	}
	return best
}

// lStar computes CIE L* (perceptual lightness, 0-100) from an sRGB pixel.
func lStar(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	rn := float64(r) / 65535
	gn := float64(g) / 65535
	bn := float64(b) / 65535
	// Relative luminance Y under D65 (sRGB primaries).
	y := 0.2126*linearize(rn) + 0.7152*linearize(gn) + 0.0722*linearize(bn)
	if y <= 216.0/24389.0 {
		return y * 24389.0 / 27.0
	}
	return 116*math.Cbrt(y) - 16
}

func linearize(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
