// Package orchestrator drives the full registration pipeline (C8):
// ingest → preprocess → feature detection → rigid registration →
// non-rigid registration → optional micro-refinement. It is the only
// package that performs I/O — every other package operates purely on
// in-memory types. It owns worker-pool scheduling, cancellation,
// structured logging, artifact persistence, the CSV error summary, and
// the stage-boundary conversion of non-fatal warnings into log records.
package orchestrator
