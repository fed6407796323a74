package nonrigid

import (
	"image"

	"github.com/crobbins327/valis/warp"
)

// Result is one slide's non-rigid displacement pair, already padded
// back to the full canonical frame shape (§4.6 bk_dxdy/fwd_dxdy).
type Result struct {
	Fwd, Bwd *Field
}

// Field is an alias kept local to this package's exported surface so
// callers don't need to import warp just to name the return type.
type Field = warp.Field

// SerialCompose walks order outward from referenceIdx, solving each
// fixed→moving pair and composing the result onto the chain (§4.6
// "serial compose"). When compose is true, each moving slide's raw
// image is pre-warped by its fixed neighbor's already-accumulated
// backward field before the solve, and the new local field is added onto
// that accumulated total; when compose is false, every pair solves
// directly against the raw, un-warped neighbor and the resulting field
// is stored as-is, not chained through the reference (§4.6). Either way
// the solver only ever sees the mask's bounding box; results are
// zero-padded back to regShape before being returned.
func SerialCompose(order []int, referenceIdx int, images map[int][]uint8, rows, cols int, regShape warp.Shape, bbox warp.Rect, solver Solver, compose bool, bgColor uint8) (map[int]*Result, []error) {
	pos := indexOf(order, referenceIdx)

	results := map[int]*Result{
		referenceIdx: {Fwd: warp.NewField(regShape), Bwd: warp.NewField(regShape)},
	}
	accFwd := map[int]*warp.Field{referenceIdx: warp.NewField(regShape)}
	accBwd := map[int]*warp.Field{referenceIdx: warp.NewField(regShape)}

	var warnings []error

	step := func(fixed, moving int) {
		fixedCropped := cropPix(images[fixed], rows, cols, bbox)

		movingPix := images[moving]
		if compose {
			movingImg := &image.Gray{Pix: movingPix, Stride: cols, Rect: image.Rect(0, 0, cols, rows)}
			warped, err := warp.WarpImage(movingImg, warp.Identity3(), accBwd[fixed], regShape, regShape, regShape, nil, bgColor, warp.Bilinear)
			if err == nil {
				movingPix = warped.Pix
			}
		}
		movingCropped := cropPix(movingPix, rows, cols, bbox)

		localFwd, localBwd, err := solver.Solve(fixedCropped, movingCropped, bbox.H, bbox.W)
		if err != nil {
			warnings = append(warnings, &SolverFailed{Fixed: fixed, Moving: moving, Err: err})
			localFwd = warp.NewField(warp.Shape{Rows: bbox.H, Cols: bbox.W})
			localBwd = warp.NewField(warp.Shape{Rows: bbox.H, Cols: bbox.W})
		}

		paddedFwd := warp.PadDisplacement(localFwd, regShape, bbox)
		paddedBwd := warp.PadDisplacement(localBwd, regShape, bbox)

		var totalFwd, totalBwd *warp.Field
		if compose {
			totalFwd, _ = warp.Add(accFwd[fixed], paddedFwd)
			totalBwd, _ = warp.Add(accBwd[fixed], paddedBwd)
		} else {
			totalFwd, totalBwd = paddedFwd, paddedBwd
		}

		accFwd[moving] = totalFwd
		accBwd[moving] = totalBwd
		results[moving] = &Result{Fwd: totalFwd, Bwd: totalBwd}
	}

	for k := pos + 1; k < len(order); k++ {
		step(order[k-1], order[k])
	}
	for k := pos - 1; k >= 0; k-- {
		step(order[k+1], order[k])
	}
	return results, warnings
}

// AlignToReference solves every non-reference slide directly against
// the reference image, independent of stack order (§4.6
// "align-to-reference").
func AlignToReference(order []int, referenceIdx int, images map[int][]uint8, rows, cols int, regShape warp.Shape, bbox warp.Rect, solver Solver, bgColor uint8) (map[int]*Result, []error) {
	results := map[int]*Result{
		referenceIdx: {Fwd: warp.NewField(regShape), Bwd: warp.NewField(regShape)},
	}
	var warnings []error

	fixedCropped := cropPix(images[referenceIdx], rows, cols, bbox)
	for _, idx := range order {
		if idx == referenceIdx {
			continue
		}
		movingCropped := cropPix(images[idx], rows, cols, bbox)
		fwd, bwd, err := solver.Solve(fixedCropped, movingCropped, bbox.H, bbox.W)
		if err != nil {
			warnings = append(warnings, &SolverFailed{Fixed: referenceIdx, Moving: idx, Err: err})
			fwd = warp.NewField(warp.Shape{Rows: bbox.H, Cols: bbox.W})
			bwd = warp.NewField(warp.Shape{Rows: bbox.H, Cols: bbox.W})
		}
		results[idx] = &Result{
			Fwd: warp.PadDisplacement(fwd, regShape, bbox),
			Bwd: warp.PadDisplacement(bwd, regShape, bbox),
		}
	}
	return results, warnings
}

func indexOf(order []int, v int) int {
	for i, x := range order {
		if x == v {
			return i
		}
	}
	return 0
}

func cropPix(pix []uint8, rows, cols int, bbox warp.Rect) []uint8 {
	out := make([]uint8, bbox.W*bbox.H)
	for row := 0; row < bbox.H; row++ {
		sr := bbox.Y + row
		if sr < 0 || sr >= rows {
			continue
		}
		for col := 0; col < bbox.W; col++ {
			sc := bbox.X + col
			if sc < 0 || sc >= cols {
				continue
			}
			out[row*bbox.W+col] = pix[sr*cols+sc]
		}
	}
	return out
}
