package warp

import "image"

// CropMode selects the output bounding region: the tissue overlap of
// every slide (grown by hysteresis, see ComputeCropMasks), the reference
// slide's own footprint, or the full canonical frame.
type CropMode int

const (
	CropOverlap CropMode = iota
	CropReference
	CropNone
)

// CropResult is one crop mode's mask (in the canonical frame) and its
// tight bounding box.
type CropResult struct {
	Mask *image.Gray
	BBox Rect
}

// BBoxForMask returns the tight bounding box of mask's nonzero pixels, or
// ErrEmptyMask if it has none.
func BBoxForMask(mask *image.Gray) (Rect, error) {
	b := mask.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X, b.Min.Y
	found := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.GrayAt(x, y).Y == 0 {
				continue
			}
			found = true
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if !found {
		return Rect{}, ErrEmptyMask
	}
	return Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}, nil
}

// ComputeCropMasks computes all three crop masks in the canonical frame,
// given every slide's rigidly-warped tissue mask (masks[i], shape
// regShape) and the reference slide's index. It is computed once, after
// rigid registration, and used uniformly by every downstream stage.
//
// The overlap mask uses hysteresis thresholding (foreground >= N-0.5,
// low >= 0.5) over the per-pixel count of masks marking tissue, followed
// by hole-filling. If the resulting overlap is empty (no pixel is tissue
// in every slide), the tight reference-slide crop is returned instead,
// per §8's boundary case.
func ComputeCropMasks(masks []*image.Gray, refIdx int, regShape Shape) (map[CropMode]CropResult, error) {
	n := len(masks)
	combo := make([]int, regShape.Rows*regShape.Cols)
	for _, m := range masks {
		b := m.Bounds()
		for y := 0; y < regShape.Rows && y < b.Dy(); y++ {
			for x := 0; x < regShape.Cols && x < b.Dx(); x++ {
				if m.GrayAt(b.Min.X+x, b.Min.Y+y).Y != 0 {
					combo[y*regShape.Cols+x]++
				}
			}
		}
	}

	overlapMask := hysteresisAndFill(combo, regShape, float64(n)-0.5, 0.5)
	overlapBBox, err := BBoxForMask(overlapMask)

	refMask := holeFill(binaryFrom(masks[refIdx], regShape), regShape)
	refBBox, refErr := BBoxForMask(refMask)
	if refErr != nil {
		refBBox = Rect{X: 0, Y: 0, W: regShape.Cols, H: regShape.Rows}
	}

	if err != nil {
		overlapMask = refMask
		overlapBBox = refBBox
	}

	noneMask := image.NewGray(image.Rect(0, 0, regShape.Cols, regShape.Rows))
	for i := range noneMask.Pix {
		noneMask.Pix[i] = 255
	}

	return map[CropMode]CropResult{
		CropOverlap:   {Mask: overlapMask, BBox: overlapBBox},
		CropReference: {Mask: refMask, BBox: refBBox},
		CropNone:      {Mask: noneMask, BBox: Rect{X: 0, Y: 0, W: regShape.Cols, H: regShape.Rows}},
	}, nil
}

func binaryFrom(m *image.Gray, s Shape) []int {
	out := make([]int, s.Rows*s.Cols)
	b := m.Bounds()
	for y := 0; y < s.Rows && y < b.Dy(); y++ {
		for x := 0; x < s.Cols && x < b.Dx(); x++ {
			if m.GrayAt(b.Min.X+x, b.Min.Y+y).Y != 0 {
				out[y*s.Cols+x] = 1
			}
		}
	}
	return out
}

// hysteresisAndFill applies two-threshold hysteresis (strong pixels seed
// a flood fill through weak-connected neighbors) then fills enclosed
// holes, mirroring skimage's apply_hysteresis_threshold followed by a
// binary-fill-holes pass.
func hysteresisAndFill(combo []int, s Shape, high, low float64) *image.Gray {
	strong := make([]bool, len(combo))
	weak := make([]bool, len(combo))
	for i, v := range combo {
		fv := float64(v)
		weak[i] = fv >= low
		strong[i] = fv >= high
	}
	result := floodFromSeeds(strong, weak, s)
	return holeFill(toInts(result), s)
}

func toInts(b []bool) []int {
	out := make([]int, len(b))
	for i, v := range b {
		if v {
			out[i] = 1
		}
	}
	return out
}

// floodFromSeeds performs an 8-connected BFS starting from every strong
// pixel, spreading through weak pixels, and returns the resulting mask.
func floodFromSeeds(strong, weak []bool, s Shape) []bool {
	visited := make([]bool, len(strong))
	queue := make([]int, 0, 256)
	for i, v := range strong {
		if v {
			visited[i] = true
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		r, c := i/s.Cols, i%s.Cols
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				nr, nc := r+dr, c+dc
				if nr < 0 || nr >= s.Rows || nc < 0 || nc >= s.Cols {
					continue
				}
				ni := nr*s.Cols + nc
				if visited[ni] || !weak[ni] {
					continue
				}
				visited[ni] = true
				queue = append(queue, ni)
			}
		}
	}
	return visited
}

// holeFill fills background regions fully enclosed by foreground: it
// flood-fills background from the image border, then treats anything not
// reached as foreground.
func holeFill(mask []int, s Shape) *image.Gray {
	reached := make([]bool, len(mask))
	queue := make([]int, 0, 256)
	push := func(r, c int) {
		if r < 0 || r >= s.Rows || c < 0 || c >= s.Cols {
			return
		}
		i := r*s.Cols + c
		if reached[i] || mask[i] != 0 {
			return
		}
		reached[i] = true
		queue = append(queue, i)
	}
	for c := 0; c < s.Cols; c++ {
		push(0, c)
		push(s.Rows-1, c)
	}
	for r := 0; r < s.Rows; r++ {
		push(r, 0)
		push(r, s.Cols-1)
	}
	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		r, c := i/s.Cols, i%s.Cols
		push(r-1, c)
		push(r+1, c)
		push(r, c-1)
		push(r, c+1)
	}
	out := image.NewGray(image.Rect(0, 0, s.Cols, s.Rows))
	for i := range mask {
		if mask[i] != 0 || !reached[i] {
			out.Pix[i] = 255
		}
	}
	return out
}
