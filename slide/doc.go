// Package slide defines the adapter contract a whole-slide image format
// must satisfy to enter the registration pipeline (C2), along with the
// in-memory Record/Set types that later stages (preprocess, features,
// rigid, nonrigid, micro, orchestrator) populate as a slide moves through
// the pipeline. No concrete Reader is implemented here — production
// formats (OpenSlide-backed pyramids, plain TIFF, …) are external
// collaborators that satisfy the Reader interface.
package slide
