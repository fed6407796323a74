package orchestrator

import (
	"errors"
	"fmt"
)

// Fatal stage failures (§7): sentinel-wrapped and returned all the way
// up to the caller. Non-fatal per-pair failures (SolverFailed,
// OutOfMemory, from nonrigid/micro) are never wrapped here — they travel
// as Warning values instead.
var (
	ErrUnreadableSlide     = errors.New("orchestrator: unreadable slide")
	ErrMissingMetadata     = errors.New("orchestrator: missing required metadata")
	ErrInsufficientMatches = errors.New("orchestrator: insufficient feature matches")
	ErrRigidFitDiverged    = errors.New("orchestrator: rigid fit diverged")
	ErrIOError             = errors.New("orchestrator: artifact write failed")
	ErrCancelled           = errors.New("orchestrator: run cancelled")

	// ErrNoSlides is returned when every input slide failed ingestion,
	// leaving nothing to register.
	ErrNoSlides = errors.New("orchestrator: no slide survived ingestion")

	// ErrNoDetector/ErrNoSolver are returned when Config is missing a
	// required external collaborator for a set with more than one
	// slide (§6); the N=1 boundary case needs neither.
	ErrNoDetector = errors.New("orchestrator: Config.Detector is required for N>1 slides")
	ErrNoSolver   = errors.New("orchestrator: Config.Solver is required for N>1 slides")
)

// StageError names which slide (by Src, when known) and pipeline stage a
// fatal error occurred in, wrapping one of the sentinels above.
type StageError struct {
	Stage string
	Slide string
	Err   error
}

func (e *StageError) Error() string {
	if e.Slide == "" {
		return fmt.Sprintf("orchestrator: stage %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("orchestrator: stage %s, slide %s: %v", e.Stage, e.Slide, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Warning is any non-fatal stage failure (nonrigid.SolverFailed,
// micro.OutOfMemory, …) the orchestrator logs and continues past.
type Warning = error

// Report is returned from Register regardless of outcome: fatal failures
// still carry whatever warnings and partial progress were collected
// before the error occurred (§7's "already-written artifacts remain").
type Report struct {
	Stage    string
	Warnings []Warning
	Summary  []SummaryRow
}
