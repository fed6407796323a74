package preprocess

import (
	"github.com/crobbins327/valis/internal/imgstat"
	"github.com/crobbins327/valis/slide"
)

// Normalize applies a set's pooled TargetStats to one image, dispatching
// on the configured method (§4.3).
func Normalize(pix []uint8, stats slide.TargetStats) []uint8 {
	switch stats.Method {
	case slide.NormHistoMatch:
		return imgstat.MatchHistogram(pix, stats.TargetCDF)
	default:
		mean, std := imgstat.MeanStd(pix)
		return imgstat.Normalize(pix, mean, std, stats.Mean, stats.Std)
	}
}

// PoolTargetStats computes a set-wide TargetStats from every slide's
// processed image, per the configured normalization method.
func PoolTargetStats(images [][]uint8, method slide.NormMethod) slide.TargetStats {
	if method == slide.NormHistoMatch {
		var pooled [256]int
		hists := make([][256]int, len(images))
		for i, img := range images {
			hists[i] = imgstat.Histogram256(img)
		}
		pooled = imgstat.PoolHistograms(hists)
		return slide.TargetStats{Method: method, TargetCDF: imgstat.CDF(pooled)}
	}

	means := make([]float64, len(images))
	stds := make([]float64, len(images))
	ns := make([]int, len(images))
	for i, img := range images {
		means[i], stds[i] = imgstat.MeanStd(img)
		ns[i] = len(img)
	}
	mean, std := imgstat.PooledMeanStd(means, stds, ns)
	return slide.TargetStats{Method: slide.NormImgStats, Mean: mean, Std: std}
}
