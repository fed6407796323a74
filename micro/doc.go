// Package micro implements the optional high-resolution refinement pass
// (C7): re-running a dense solver on top of an existing displacement
// field, either whole-frame or — once the field memory budget is
// exceeded — tile-by-tile with Hann-window stitching, and additively
// composing the refinement onto the field it refines.
package micro
