package preprocess

import (
	"github.com/crobbins327/valis/slide"
)

// DefaultFluorescenceChannel is the channel extracted when the caller
// doesn't name one explicitly (§4.10 defaults).
const DefaultFluorescenceChannel = "DAPI"

// ExtractChannel pulls one named channel out of a multi-channel Plane
// and returns it as an 8-bit image, widened back down from the Plane's
// 16-bit storage.
func ExtractChannel(p *slide.Plane, channels []slide.Channel, name string) ([]uint8, error) {
	if p.Channels == 0 {
		return nil, ErrNoChannels
	}
	idx := -1
	for i, c := range channels {
		if c.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrChannelNotFound
	}
	n := p.Rows * p.Cols
	out := make([]uint8, n)
	for i := 0; i < n; i++ {
		out[i] = uint8(p.Data[i*p.Channels+idx] >> 8)
	}
	return out, nil
}

// AdaptiveEqualize applies tile-local histogram equalization: the image
// is divided into tileSize×tileSize blocks, each block's own CDF is used
// to remap its pixels, avoiding the washed-out contrast a single global
// equalization produces on fluorescence images with sparse, uneven
// signal.
func AdaptiveEqualize(pix []uint8, rows, cols, tileSize int) []uint8 {
	if tileSize <= 0 {
		tileSize = rows
	}
	out := make([]uint8, len(pix))
	for ty := 0; ty < rows; ty += tileSize {
		for tx := 0; tx < cols; tx += tileSize {
			th := min(tileSize, rows-ty)
			tw := min(tileSize, cols-tx)
			tile := make([]uint8, 0, th*tw)
			for y := 0; y < th; y++ {
				row := (ty + y) * cols
				tile = append(tile, pix[row+tx:row+tx+tw]...)
			}
			var hist [256]int
			for _, v := range tile {
				hist[v]++
			}
			var cdf [256]float64
			var cum int
			for i, c := range hist {
				cum += c
				cdf[i] = float64(cum) / float64(len(tile))
			}
			for y := 0; y < th; y++ {
				row := (ty + y) * cols
				for x := 0; x < tw; x++ {
					v := pix[row+tx+x]
					out[row+tx+x] = uint8(cdf[v] * 255)
				}
			}
		}
	}
	return out
}
