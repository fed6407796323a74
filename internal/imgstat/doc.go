// Package imgstat implements the two pooled cross-image intensity
// normalization modes used by preprocess: img_stats (shift/scale to a
// pooled mean/std, via gonum.org/v1/gonum/stat) and histo_match (match
// each image's CDF to a pooled 256-bin target histogram). No
// histogram-matching library fits this narrow a task, so the CDF table
// itself is plain stdlib arithmetic.
package imgstat
