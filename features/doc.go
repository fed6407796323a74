// Package features detects keypoints on every slide's processed image,
// matches them pairwise, filters outliers, and derives the stack order
// and per-pair geometric relationships the rigid registrar consumes
// (§4.4). Detection and dense solving are pluggable via the Detector
// interface; the matching, filtering, similarity-graph, and ordering
// logic here are concrete.
package features
