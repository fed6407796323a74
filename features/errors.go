package features

import "fmt"

// InsufficientMatches is returned when a slide has fewer than the
// required inlier matches to every candidate neighbor (§4.4). Scores
// holds the slide's two worst neighbor-pair match counts, ascending; a
// boundary slide with only one candidate neighbor carries -1 in the
// unused slot (§7's "report offending slide and its two worst pair
// scores").
type InsufficientMatches struct {
	Slide  int
	Scores [2]int
}

func (e *InsufficientMatches) Error() string {
	return fmt.Sprintf("features: slide %d has insufficient inlier matches to every candidate neighbor (worst pair scores %d, %d)", e.Slide, e.Scores[0], e.Scores[1])
}

// MinInlierMatches is the threshold below which a slide's neighbor
// match set is considered insufficient (§4.4: "fewer than 3 inlier
// matches").
const MinInlierMatches = 3
