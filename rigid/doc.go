// Package rigid estimates each slide's rigid transform into the
// canonical frame (C5): full-chain registration from the reference
// outward, or partial registration from caller-supplied matrices, with
// an optional four-class transform-class retry ladder and axis
// reflection search.
package rigid
