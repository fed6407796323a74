package imgstat

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MeanStd returns the mean and population standard deviation of an 8-bit
// image's pixel values, using gonum.org/v1/gonum/stat.
func MeanStd(pix []uint8) (mean, std float64) {
	vals := make([]float64, len(pix))
	for i, v := range pix {
		vals[i] = float64(v)
	}
	mean, variance := stat.PopMeanVariance(vals, nil)
	return mean, math.Sqrt(variance)
}

// PooledMeanStd combines per-image (mean, std, n) triples into the
// pooled mean/std of the union, used as target_stats when
// normalization_method is img_stats.
func PooledMeanStd(means, stds []float64, ns []int) (mean, std float64) {
	var totalN int
	var sumMean float64
	for i, n := range ns {
		sumMean += means[i] * float64(n)
		totalN += n
	}
	if totalN == 0 {
		return 0, 0
	}
	mean = sumMean / float64(totalN)

	var sumVar float64
	for i, n := range ns {
		// Pool variances accounting for the shift between each image's
		// mean and the pooled mean (law of total variance).
		d := means[i] - mean
		sumVar += float64(n) * (stds[i]*stds[i] + d*d)
	}
	std = math.Sqrt(sumVar / float64(totalN))
	return mean, std
}

// Normalize shifts and scales pix so its (mean, std) becomes
// (targetMean, targetStd), clamping to [0, 255].
func Normalize(pix []uint8, mean, std, targetMean, targetStd float64) []uint8 {
	out := make([]uint8, len(pix))
	if std == 0 {
		std = 1
	}
	for i, v := range pix {
		z := (float64(v) - mean) / std
		nv := z*targetStd + targetMean
		out[i] = clampByte(nv)
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
	return uint8(v + 0.5)
}
