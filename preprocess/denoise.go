package preprocess

import "sort"

// DenoiseForRigid applies a single edge-preserving median-filter pass,
// used only for the feature/rigid-alignment input; the caller keeps the
// un-denoised image for non-rigid registration (§4.3).
func DenoiseForRigid(pix []uint8, rows, cols, radius int) []uint8 {
	out := make([]uint8, len(pix))
	window := make([]uint8, 0, (2*radius+1)*(2*radius+1))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			window = window[:0]
			for dy := -radius; dy <= radius; dy++ {
				ny := y + dy
				if ny < 0 || ny >= rows {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					nx := x + dx
					if nx < 0 || nx >= cols {
						continue
					}
					window = append(window, pix[ny*cols+nx])
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			out[y*cols+x] = window[len(window)/2]
		}
	}
	return out
}
