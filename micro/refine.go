package micro

import (
	"github.com/crobbins327/valis/internal/raster"
	"github.com/crobbins327/valis/nonrigid"
	"github.com/crobbins327/valis/warp"
)

// bytesPerFieldPixel is the per-pixel memory cost of holding both a
// forward and backward field in memory at once: 2 bands × 2 fields ×
// 4-byte float32.
const bytesPerFieldPixel = 16

// Result is one slide's refined displacement pair, at the refinement
// pass's own (possibly higher) resolution.
type Result struct {
	Fwd, Bwd *warp.Field
}

// Options configures a refinement pass.
type Options struct {
	TileSize          int
	TileOverlap       int
	MemoryBudgetBytes int64
}

// DefaultOptions returns the §4.10 micro_tile_size default with a
// quarter-tile overlap and no memory budget (always whole-frame).
func DefaultOptions() Options {
	return Options{TileSize: 512, TileOverlap: 128, MemoryBudgetBytes: 0}
}

// Refine re-runs solver on (fixed, moving) — both of shape rows×cols,
// the resolution this refinement pass operates at — and additively
// composes the result onto existing (resampled to rows×cols first, per
// §4.7's "both resampled to a common shape"). When the estimated field
// memory for a whole-frame solve exceeds opts.MemoryBudgetBytes (and a
// budget is set), the pass is promoted to tiled solving: solver.Solve is
// called once per tile and the tile-local fields are stitched with a
// Hann-window blend (Open Question (b)) before being added to existing.
//
// A nil existing is treated as an identity field, so Refine also serves
// as a standalone (non-refining) micro pass.
func Refine(fixed, moving []uint8, rows, cols int, existing *Result, solver nonrigid.Solver, opts Options) (*Result, []error, error) {
	shape := warp.Shape{Rows: rows, Cols: cols}

	var fwd, bwd *warp.Field
	var warnings []error

	estimated := int64(rows) * int64(cols) * bytesPerFieldPixel
	if opts.MemoryBudgetBytes > 0 && estimated > opts.MemoryBudgetBytes {
		warnings = append(warnings, &OutOfMemory{EstimatedBytes: estimated, BudgetBytes: opts.MemoryBudgetBytes})
		fwd, bwd = refineTiled(fixed, moving, rows, cols, solver, opts)
	} else {
		var err error
		fwd, bwd, err = solver.Solve(fixed, moving, rows, cols)
		if err != nil {
			warnings = append(warnings, &nonrigid.SolverFailed{Fixed: -1, Moving: -1, Err: err})
			fwd = warp.NewField(shape)
			bwd = warp.NewField(shape)
		}
	}

	if existing == nil {
		return &Result{Fwd: fwd, Bwd: bwd}, warnings, nil
	}

	resizedFwd := warp.Rescale(existing.Fwd, shape)
	resizedBwd := warp.Rescale(existing.Bwd, shape)

	totalFwd, err := warp.Add(resizedFwd, fwd)
	if err != nil {
		return nil, warnings, err
	}
	totalBwd, err := warp.Add(resizedBwd, bwd)
	if err != nil {
		return nil, warnings, err
	}
	return &Result{Fwd: totalFwd, Bwd: totalBwd}, warnings, nil
}

func refineTiled(fixed, moving []uint8, rows, cols int, solver nonrigid.Solver, opts Options) (*warp.Field, *warp.Field) {
	tiles := PlanTiles(rows, cols, opts.TileSize, opts.TileOverlap)
	fwdBlend := raster.NewBlender(rows, cols)
	bwdBlend := raster.NewBlender(rows, cols)

	for _, t := range tiles {
		fixedTile := cropTile(fixed, cols, t)
		movingTile := cropTile(moving, cols, t)

		fwd, bwd, err := solver.Solve(fixedTile, movingTile, t.Rows, t.Cols)
		if err != nil {
			fwd = warp.NewField(warp.Shape{Rows: t.Rows, Cols: t.Cols})
			bwd = warp.NewField(warp.Shape{Rows: t.Rows, Cols: t.Cols})
		}
		fwdBlend.AddTile(t.X0, t.Y0, t.Rows, t.Cols, fwd.Dx, fwd.Dy)
		bwdBlend.AddTile(t.X0, t.Y0, t.Rows, t.Cols, bwd.Dx, bwd.Dy)
	}

	fdx, fdy := fwdBlend.Finish()
	bdx, bdy := bwdBlend.Finish()
	return &warp.Field{Rows: rows, Cols: cols, Dx: fdx, Dy: fdy},
		&warp.Field{Rows: rows, Cols: cols, Dx: bdx, Dy: bdy}
}

func cropTile(pix []uint8, cols int, t Tile) []uint8 {
	out := make([]uint8, t.Rows*t.Cols)
	for row := 0; row < t.Rows; row++ {
		srcOff := (t.Y0+row)*cols + t.X0
		dstOff := row * t.Cols
		copy(out[dstOff:dstOff+t.Cols], pix[srcOff:srcOff+t.Cols])
	}
	return out
}
