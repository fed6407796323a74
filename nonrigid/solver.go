package nonrigid

import "github.com/crobbins327/valis/warp"

// Solver is the pluggable dense displacement estimator (§4.6): given a
// fixed and moving 8-bit image of equal shape, it returns the forward
// field (moving → fixed) and backward field (fixed → moving), each the
// inverse of the other within solver tolerance. Concrete solvers
// (optical flow, demons, learned registration nets, …) are external
// collaborators.
type Solver interface {
	Solve(fixed, moving []uint8, rows, cols int) (fwd, bwd *warp.Field, err error)
}
