package features

import "gonum.org/v1/gonum/spatial/r2"

// Keypoint is a detected interest point in an image's own pixel
// coordinates.
type Keypoint struct {
	Point r2.Vec
}

// Descriptor is a detector-specific feature vector; matching only ever
// compares same-length descriptors against each other via Euclidean
// distance, so the concrete detector's vector length is opaque here.
type Descriptor []float32

// FeatureSet is one slide's detected keypoints and descriptors, indices
// aligned.
type FeatureSet struct {
	Keypoints   []Keypoint
	Descriptors []Descriptor
}

// Match pairs a keypoint index in a FeatureSet A with one in FeatureSet B.
type Match struct {
	A, B int
}

// Detector is the pluggable keypoint/descriptor extractor (§4.4:
// "detect feature keypoints and descriptors via the pluggable
// detector"). Concrete detectors (ORB, SIFT, …) are external
// collaborators.
type Detector interface {
	Detect(img []uint8, rows, cols int) (FeatureSet, error)
}
