// Package nonrigid runs dense displacement-field registration across a
// rigidly aligned stack (C6): serial-compose and align-to-reference
// strategies, both scoped to the tissue-union mask's bounding box and
// zero-padded back to the canonical frame. The dense Solver itself is
// pluggable; this package owns composition, masking, and padding.
package nonrigid
