package slide

import (
	"github.com/crobbins327/valis/warp"
)

// NormMethod selects how TargetStats was computed and how it should be
// applied during preprocessing (§9 DEFAULT_NORM_METHOD).
type NormMethod int

const (
	NormImgStats NormMethod = iota
	NormHistoMatch
)

// TargetStats is the global intensity normalization target computed once
// per set and applied to every processed image (§3 Set-level record).
type TargetStats struct {
	Method NormMethod

	// Populated when Method == NormImgStats.
	Mean, Std float64

	// Populated when Method == NormHistoMatch.
	TargetCDF [256]float64
}

// Set is the set-level record shared by every slide in a registration
// run (§3).
type Set struct {
	Records []*Record

	ReferenceIdx int
	CropMode     warp.CropMode
	CropMasks    map[warp.CropMode]warp.CropResult

	TargetStats TargetStats

	// Modality is the set's overall modality classification; "multi"
	// (Modality < 0) means Records carry a mix, and per-slide dispatch
	// (preprocess.For) must consult each Record's own Modality instead
	// of a single set-wide value (§9 supplemented feature).
	Modality Modality
}

// Multi is the sentinel Set.Modality value for mixed-modality sets.
const Multi Modality = -1

// Reference returns the set's reference slide record.
func (s *Set) Reference() *Record {
	return s.Records[s.ReferenceIdx]
}

// DetectModality classifies the set as Brightfield, Fluorescence, or
// Multi by scanning each record's own Modality.
func DetectModality(records []*Record) Modality {
	if len(records) == 0 {
		return Brightfield
	}
	first := records[0].Modality
	for _, r := range records[1:] {
		if r.Modality != first {
			return Multi
		}
	}
	return first
}
