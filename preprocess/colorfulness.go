package preprocess

import (
	"math"

	"github.com/crobbins327/valis/slide"
)

// Colorfulness reduces an RGB Plane to a single 8-bit channel that's
// high on stained (saturated, non-neutral) tissue and low on the
// near-white glass background, approximating a color-deconvolution
// stain score without modeling a specific stain basis. It uses the
// opponent-color combination from Hasler & Süsstrunk's colorfulness
// metric (rg = R-G, yb = 0.5(R+G)-B) evaluated per pixel rather than
// pooled over the whole image, since the mask stage needs a spatial map.
func Colorfulness(p *slide.Plane) []uint8 {
	n := p.Rows * p.Cols
	out := make([]uint8, n)
	if p.Channels < 3 {
		for i := 0; i < n; i++ {
			out[i] = uint8(p.Data[i*p.Channels] >> 8)
		}
		return out
	}
	for i := 0; i < n; i++ {
		r := float64(p.Data[i*p.Channels])
		g := float64(p.Data[i*p.Channels+1])
		b := float64(p.Data[i*p.Channels+2])
		rg := r - g
		yb := 0.5*(r+g) - b
		score := math.Sqrt(rg*rg + yb*yb)
		out[i] = clampByte(score / 256) // Data is widened to 16-bit; scale back to 8-bit range
	}
	return out
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
