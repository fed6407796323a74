package nonrigid

import (
	"image"

	"github.com/crobbins327/valis/warp"
)

// TissueUnionMask derives the non-rigid bounding region from every
// rigidly-warped slide's mask, using the same hysteresis-and-hole-fill
// rule as the overlap crop mode (§4.6: "tissue-union mask derived from
// rigid masks with the same hysteresis rule as the overlap crop").
func TissueUnionMask(rigidMasks []*image.Gray, regShape warp.Shape) (*image.Gray, warp.Rect, error) {
	results, err := warp.ComputeCropMasks(rigidMasks, 0, regShape)
	if err != nil {
		return nil, warp.Rect{}, err
	}
	overlap := results[warp.CropOverlap]
	if _, err := warp.BBoxForMask(overlap.Mask); err != nil {
		return nil, warp.Rect{}, ErrEmptyTissueMask
	}
	return overlap.Mask, overlap.BBox, nil
}
