package preprocess

import "image"

// TissueMask thresholds a score image (colorfulness or an equalized
// fluorescence channel) with Otsu's method and morphologically closes
// the result (dilate then erode) to fill small gaps within tissue,
// returning a binary mask image (0 or 255).
func TissueMask(score []uint8, rows, cols, closeRadius int) *image.Gray {
	t := otsuThreshold(score)
	bin := make([]uint8, len(score))
	for i, v := range score {
		if v >= t {
			bin[i] = 255
		}
	}
	if closeRadius > 0 {
		bin = dilate(bin, rows, cols, closeRadius)
		bin = erode(bin, rows, cols, closeRadius)
	}
	return &image.Gray{Pix: bin, Stride: cols, Rect: image.Rect(0, 0, cols, rows)}
}

// otsuThreshold computes Otsu's between-class-variance-maximizing
// split over an 8-bit histogram and returns the lowest intensity of the
// upper class, so foreground is every pixel with v >= threshold.
func otsuThreshold(pix []uint8) uint8 {
	var hist [256]int
	for _, v := range pix {
		hist[v]++
	}
	total := len(pix)
	var sum float64
	for i, c := range hist {
		sum += float64(i * c)
	}

	var sumB, wB float64
	var best float64
	bestT := 0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			bestT = t
		}
	}
	// Intensities <= bestT form the lower class.
	return uint8(bestT + 1)
}

func dilate(bin []uint8, rows, cols, radius int) []uint8 {
	out := make([]uint8, len(bin))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var on bool
			for dy := -radius; dy <= radius && !on; dy++ {
				ny := y + dy
				if ny < 0 || ny >= rows {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					nx := x + dx
					if nx < 0 || nx >= cols {
						continue
					}
					if bin[ny*cols+nx] != 0 {
						on = true
						break
					}
				}
			}
			if on {
				out[y*cols+x] = 255
			}
		}
	}
	return out
}

func erode(bin []uint8, rows, cols, radius int) []uint8 {
	out := make([]uint8, len(bin))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			all := true
			for dy := -radius; dy <= radius && all; dy++ {
				ny := y + dy
				if ny < 0 || ny >= rows {
					all = false
					break
				}
				for dx := -radius; dx <= radius; dx++ {
					nx := x + dx
					if nx < 0 || nx >= cols || bin[ny*cols+nx] == 0 {
						all = false
						break
					}
				}
			}
			if all {
				out[y*cols+x] = 255
			}
		}
	}
	return out
}
