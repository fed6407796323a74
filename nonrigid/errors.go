package nonrigid

import (
	"errors"
	"fmt"
)

// ErrEmptyTissueMask is returned when the tissue-union mask (the overlap
// crop mask, or slide 0's own mask when the overlap is empty) has no
// foreground pixels, so no nr_bbox can be derived.
var ErrEmptyTissueMask = errors.New("nonrigid: tissue-union mask has no foreground pixels")

// SolverFailed wraps a dense solver's error for one slide pair,
// surfaced as a warning rather than aborting the whole set: the pair's
// displacement stays at identity and the pipeline continues (§7).
type SolverFailed struct {
	Fixed, Moving int
	Err           error
}

func (e *SolverFailed) Error() string {
	return fmt.Sprintf("nonrigid: solver failed for fixed=%d moving=%d: %v", e.Fixed, e.Moving, e.Err)
}

func (e *SolverFailed) Unwrap() error { return e.Err }
