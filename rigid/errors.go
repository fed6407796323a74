package rigid

import "errors"

var (
	// ErrUnderspecifiedMatrix is returned by partial rigid registration
	// when a caller-supplied matrix is not invertible; no replacement
	// is derived from matches in that case (§9 Open Question (a)).
	ErrUnderspecifiedMatrix = errors.New("rigid: partial rigid entry is underspecified")

	// ErrRigidFitDiverged is returned when every class on the retry
	// ladder, including the Translation fallback, fails to produce a
	// finite, invertible matrix (§7).
	ErrRigidFitDiverged = errors.New("rigid: fit diverged at every transform class")

	// ErrTooFewPoints is returned when a transform class needs more
	// correspondences than were supplied.
	ErrTooFewPoints = errors.New("rigid: too few point correspondences for this transform class")
)
