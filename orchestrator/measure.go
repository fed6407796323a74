package orchestrator

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/crobbins327/valis/warp"
)

// StageChains holds one slide's Chain snapshot at each measurable
// pipeline stage (§4.8's four distances): Raw is the identity chain (no
// rigid, no non-rigid), Rigid has only the fit matrix, NonRigid adds the
// dense field, Micro is nil unless the micro pass ran.
type StageChains struct {
	Raw, Rigid, NonRigid, Micro *warp.Chain
}

// Distances is one slide pair's four measured distances, in the slide's
// physical units; a stage whose chain is nil in either StageChains (Micro,
// when C7 is skipped) is NaN. measureStage always supplies a NonRigid
// chain, so a slide whose solve failed reports the distance under its
// identity fallback field, not NaN.
type Distances struct {
	Raw, Rigid, NonRigid, Micro float64
}

// Measure computes the four-distance scheme for one (fixed, moving)
// neighbor pair: fixedPts/movingPts are matched feature points in each
// slide's own ShapeProc-native coordinates that survived filtering.
// Each stage's distance is the median, across matches, of the Euclidean
// distance between the two points' positions in the canonical frame,
// scaled by physicalPixelSize; each stage's rTRE is the same canonical
// pixel distance divided by refDiagonalPixels (§6: "rTRE = feature
// distance divided by the diagonal of the reference processed image"),
// kept unitless rather than physically scaled.
func Measure(fixed, moving StageChains, fixedPts, movingPts []r2.Vec, physicalPixelSize, refDiagonalPixels float64) (d Distances, rtre Distances, err error) {
	raw, err := stageDistance(fixed.Raw, moving.Raw, fixedPts, movingPts)
	if err != nil {
		return Distances{}, Distances{}, err
	}
	rigidD, err := stageDistance(fixed.Rigid, moving.Rigid, fixedPts, movingPts)
	if err != nil {
		return Distances{}, Distances{}, err
	}

	nonRigidD := math.NaN()
	if fixed.NonRigid != nil && moving.NonRigid != nil {
		if v, err := stageDistance(fixed.NonRigid, moving.NonRigid, fixedPts, movingPts); err == nil {
			nonRigidD = v
		}
	}

	microD := math.NaN()
	if fixed.Micro != nil && moving.Micro != nil {
		if v, err := stageDistance(fixed.Micro, moving.Micro, fixedPts, movingPts); err == nil {
			microD = v
		}
	}

	d = Distances{
		Raw:      raw * physicalPixelSize,
		Rigid:    rigidD * physicalPixelSize,
		NonRigid: scaleIfFinite(nonRigidD, physicalPixelSize),
		Micro:    scaleIfFinite(microD, physicalPixelSize),
	}
	rtre = Distances{
		Raw:      raw / refDiagonalPixels,
		Rigid:    rigidD / refDiagonalPixels,
		NonRigid: scaleIfFinite(nonRigidD, 1/refDiagonalPixels),
		Micro:    scaleIfFinite(microD, 1/refDiagonalPixels),
	}
	return d, rtre, nil
}

func scaleIfFinite(v, factor float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	return v * factor
}

func stageDistance(fixedChain, movingChain *warp.Chain, fixedPts, movingPts []r2.Vec) (float64, error) {
	fixedCanon := fixedChain.ToCanonical(fixedPts)
	movingCanon := movingChain.ToCanonical(movingPts)
	n := len(fixedCanon)
	if n == 0 || n != len(movingCanon) {
		return math.NaN(), nil
	}
	dists := make([]float64, n)
	for i := range dists {
		dx := fixedCanon[i].X - movingCanon[i].X
		dy := fixedCanon[i].Y - movingCanon[i].Y
		dists[i] = math.Sqrt(dx*dx + dy*dy)
	}
	return median(dists), nil
}

func median(vs []float64) float64 {
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// WeightedMean computes a set-level summary: per-slide medians, weighted
// by each slide's match count (§6's "Set-level summaries weight
// per-slide medians by the number of matches").
func WeightedMean(medians []float64, weights []int) float64 {
	var sum, totalWeight float64
	for i, m := range medians {
		if math.IsNaN(m) {
			continue
		}
		w := float64(weights[i])
		sum += m * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return math.NaN()
	}
	return sum / totalWeight
}
