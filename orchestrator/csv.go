package orchestrator

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
)

// SummaryRow is one non-reference slide's row in the error-measurement
// CSV, matching §6's column list exactly.
type SummaryRow struct {
	Filename string
	From, To string

	OriginalD, OriginalRTRE float64
	RigidD, RigidRTRE       float64
	NonRigidD, NonRigidRTRE float64
	ProcessedImgShape       string
	Shape                   string
	AlignedShape            string
	MeanOriginalD           float64
	MeanRigidD              float64
	MeanNonRigidD           float64
	PhysicalUnits           string
	Resolution              float64
	Name                    string
	RigidTimeMinutes        float64
	NonRigidTimeMinutes     float64

	// NumMatches is the slide's surviving neighbor-match count, used to
	// weight this row's medians into the set-level mean (§6); it is not
	// itself a CSV column.
	NumMatches int
}

var csvHeader = []string{
	"filename", "from", "to", "original_D", "original_rTRE",
	"rigid_D", "rigid_rTRE", "non_rigid_D", "non_rigid_rTRE",
	"processed_img_shape", "shape", "aligned_shape",
	"mean_original_D", "mean_rigid_D", "mean_non_rigid_D",
	"physical_units", "resolution", "name",
	"rigid_time_minutes", "non_rigid_time_minutes",
}

// WriteCSV writes rows to w in the §6 column order.
func WriteCSV(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("orchestrator: %w: %v", ErrIOError, err)
	}
	for _, r := range rows {
		record := []string{
			r.Filename, r.From, r.To,
			formatFloat(r.OriginalD), formatFloat(r.OriginalRTRE),
			formatFloat(r.RigidD), formatFloat(r.RigidRTRE),
			formatFloat(r.NonRigidD), formatFloat(r.NonRigidRTRE),
			r.ProcessedImgShape, r.Shape, r.AlignedShape,
			formatFloat(r.MeanOriginalD), formatFloat(r.MeanRigidD), formatFloat(r.MeanNonRigidD),
			r.PhysicalUnits, formatFloat(r.Resolution), r.Name,
			formatFloat(r.RigidTimeMinutes), formatFloat(r.NonRigidTimeMinutes),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("orchestrator: %w: %v", ErrIOError, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("orchestrator: %w: %v", ErrIOError, err)
	}
	return nil
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%g", v)
}
