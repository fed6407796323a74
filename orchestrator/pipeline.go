package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/crobbins327/valis/features"
	"github.com/crobbins327/valis/micro"
	"github.com/crobbins327/valis/nonrigid"
	"github.com/crobbins327/valis/preprocess"
	"github.com/crobbins327/valis/rigid"
	"github.com/crobbins327/valis/slide"
	"github.com/crobbins327/valis/warp"
)

// Input is one slide entering a run: its source identifier and the
// Reader that materializes its pyramid (§6, external collaborator).
type Input struct {
	Src    string
	Reader slide.Reader
}

// RunRequest is everything Register needs beyond Config: the slide set
// itself, which one is the reference, and where to persist artifacts.
// Whether the input order is already the stack order is
// Config.OrderIsKnown (§4.4).
type RunRequest struct {
	Inputs       []Input
	ReferenceSrc string // src of the reference slide; "" selects Inputs[0]
	OutDir       string // artifact root; "" skips persistence entirely
	Name         string // set name, used in artifact filenames
}

// Register drives the full pipeline (C2→C3→C4→C5→C6→C7), persists
// artifacts under req.OutDir/req.Name (§6) when OutDir is non-empty, and
// returns the populated Set alongside a Report of warnings and the CSV
// summary rows. ctx is checked between stages and between per-slide
// iterations within a stage (§5); a cancelled context returns
// ErrCancelled with whatever Report was accumulated so far.
func Register(ctx context.Context, req RunRequest, cfg *Config) (*slide.Set, *Report, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	log := cfg.Logger
	report := &Report{}

	if len(req.Inputs) == 0 {
		return nil, report, &StageError{Stage: "ingest", Err: ErrNoSlides}
	}
	if len(req.Inputs) > 1 {
		if cfg.Detector == nil {
			return nil, report, &StageError{Stage: "features", Err: ErrNoDetector}
		}
		if cfg.Solver == nil {
			return nil, report, &StageError{Stage: "nonrigid", Err: ErrNoSolver}
		}
	}

	// ---- C2: ingest -------------------------------------------------
	records, planes, err := ingestStage(ctx, req.Inputs, req.ReferenceSrc, cfg, report)
	if err != nil {
		return nil, report, err
	}
	if err := checkCancelled(ctx); err != nil {
		return nil, report, err
	}

	referenceIdx := 0
	for i, r := range records {
		if r.Src == req.ReferenceSrc {
			referenceIdx = i
			break
		}
	}

	set := &slide.Set{
		Records:      records,
		ReferenceIdx: referenceIdx,
		CropMode:     cfg.CropMode,
		Modality:     slide.DetectModality(records),
	}

	if len(records) == 1 {
		r := records[0]
		processed, masks, err := preprocessStage(ctx, records, planes, cfg)
		if err != nil {
			return nil, report, err
		}
		r.RegShape = r.ShapeProc
		r.RigidM = warp.Identity3()
		r.ImageThumb = grayImage(processed[0], r.ShapeProc)
		r.MaskThumb = masks[0]
		r.BgColor = color.Gray{Y: grayY(warp.BackgroundColor(r.ImageThumb, r.Modality == slide.Fluorescence))}
		r.FwdDxDy = warp.NewField(r.RegShape)
		r.BwdDxDy = warp.NewField(r.RegShape)
		r.StackIdx = 0
		r.FixedNeighbor = -1
		set.CropMasks = map[warp.CropMode]warp.CropResult{
			warp.CropNone: {Mask: fullMask(r.RegShape), BBox: warp.Rect{X: 0, Y: 0, W: r.RegShape.Cols, H: r.RegShape.Rows}},
		}
		if req.OutDir != "" {
			if err := persistArtifacts(req.OutDir, req.Name, set, cfg, nil); err != nil {
				return set, report, &StageError{Stage: "persist", Err: err}
			}
		}
		return set, report, nil
	}

	// ---- C3: preprocess ----------------------------------------------
	processed, masks, err := preprocessStage(ctx, records, planes, cfg)
	if err != nil {
		return nil, report, err
	}
	if err := checkCancelled(ctx); err != nil {
		return nil, report, err
	}

	targetStats := preprocess.PoolTargetStats(processed, cfg.NormMethod)
	set.TargetStats = targetStats

	normalized := make([][]uint8, len(records))
	denoised := make([][]uint8, len(records))
	for i, rec := range records {
		normalized[i] = preprocess.Normalize(processed[i], targetStats)
		denoised[i] = preprocess.DenoiseForRigid(normalized[i], rec.ShapeProc.Rows, rec.ShapeProc.Cols, cfg.DenoiseRadius)
	}

	// ---- C4: feature graph --------------------------------------------
	featureSets := make([]features.FeatureSet, len(records))
	if err := runStage(ctx, len(records), cfg.NumWorkers, func(ctx context.Context, i int) error {
		fs, err := cfg.Detector.Detect(denoised[i], records[i].ShapeProc.Rows, records[i].ShapeProc.Cols)
		if err != nil {
			return &StageError{Stage: "features", Slide: records[i].Src, Err: err}
		}
		featureSets[i] = fs
		return nil
	}); err != nil {
		return nil, report, err
	}
	if err := checkCancelled(ctx); err != nil {
		return nil, report, err
	}

	sm := features.NewSimilarityMatrix(featureSets, cfg.MatchFilter, cfg.FilterTol, cfg.FilterIters, cfg.Seed)
	order := features.Order(sm, cfg.OrderIsKnown)
	refined := features.RefineNeighborMatches(sm, featureSets, order, cfg.FilterTol, cfg.FilterIters, cfg.Seed)
	if err := features.CheckSufficientMatches(refined, order); err != nil {
		var im *features.InsufficientMatches
		if errors.As(err, &im) {
			log.Error("insufficient feature matches", "slide", records[im.Slide].Src, "worst_pair_scores", im.Scores, "min_inlier_matches", features.MinInlierMatches)
			return nil, report, &StageError{Stage: "features", Slide: records[im.Slide].Src, Err: fmt.Errorf("%w: %v", ErrInsufficientMatches, err)}
		}
		return nil, report, &StageError{Stage: "features", Err: err}
	}

	// ---- C5: rigid registrar -------------------------------------------
	rigidStart := time.Now()
	shapeOf := func(idx int) warp.Shape { return records[idx].ShapeProc }
	corr := func(fixed, moving int) ([]r2.Vec, []r2.Vec) {
		return pairPoints(refined, featureSets, fixed, moving)
	}

	m, fixedNeighbor, err := rigid.FullRigid(order, referenceIdx, corr, shapeOf, cfg.TransformClass, cfg.CheckReflections, cfg.FilterTol)
	if err != nil {
		if errors.Is(err, rigid.ErrRigidFitDiverged) {
			return nil, report, &StageError{Stage: "rigid", Err: fmt.Errorf("%w: %v", ErrRigidFitDiverged, err)}
		}
		return nil, report, &StageError{Stage: "rigid", Err: err}
	}
	regShape, finalM := rigid.CanonicalShape(shapeOf, m)
	rigidElapsed := time.Since(rigidStart)

	stackIdx := make(map[int]int, len(order))
	for pos, idx := range order {
		stackIdx[idx] = pos
	}
	for idx, rec := range records {
		rec.RigidM = finalM[idx]
		rec.RegShape = regShape
		rec.StackIdx = stackIdx[idx]
		rec.FixedNeighbor = fixedNeighbor[idx]
	}

	// Warp every slide's normalized image and mask into the canonical
	// frame; background color is sampled per-modality (§4.1) from the
	// un-rigid-warped normalized image.
	canonImages := make(map[int][]uint8, len(records))
	canonMasks := make([]*image.Gray, len(records))
	for idx, rec := range records {
		bg := warp.BackgroundColor(grayImage(normalized[idx], rec.ShapeProc), rec.Modality == slide.Fluorescence)
		rec.BgColor = color.Gray{Y: grayY(bg)}

		warpedImg, err := warp.WarpImage(grayImage(normalized[idx], rec.ShapeProc), rec.RigidM, nil, rec.ShapeProc, regShape, regShape, nil, rec.BgColor.Y, warp.Bilinear)
		if err != nil {
			return nil, report, &StageError{Stage: "rigid", Slide: rec.Src, Err: err}
		}
		warpedMask, err := warp.WarpImage(masks[idx], rec.RigidM, nil, rec.ShapeProc, regShape, regShape, nil, 0, warp.Nearest)
		if err != nil {
			return nil, report, &StageError{Stage: "rigid", Slide: rec.Src, Err: err}
		}
		canonImages[idx] = warpedImg.Pix
		canonMasks[idx] = warpedMask
		rec.ImageThumb = warpedImg
		rec.MaskThumb = warpedMask
	}

	cropMasks, err := warp.ComputeCropMasks(canonMasks, referenceIdx, regShape)
	if err != nil {
		return nil, report, &StageError{Stage: "rigid", Err: err}
	}
	set.CropMasks = cropMasks

	if err := checkCancelled(ctx); err != nil {
		return nil, report, err
	}

	// ---- C6: non-rigid registrar ---------------------------------------
	nonRigidStart := time.Now()
	_, nrBBox, err := nonrigid.TissueUnionMask(canonMasks, regShape)
	if err != nil {
		return nil, report, &StageError{Stage: "nonrigid", Err: err}
	}

	var nrResults map[int]*nonrigid.Result
	var nrWarnings []error
	refBg := records[referenceIdx].BgColor.Y
	if cfg.ComposeNonRigid {
		nrResults, nrWarnings = nonrigid.SerialCompose(order, referenceIdx, canonImages, regShape.Rows, regShape.Cols, regShape, nrBBox, cfg.Solver, true, refBg)
	} else {
		nrResults, nrWarnings = nonrigid.AlignToReference(order, referenceIdx, canonImages, regShape.Rows, regShape.Cols, regShape, nrBBox, cfg.Solver, refBg)
	}
	for _, w := range nrWarnings {
		report.Warnings = append(report.Warnings, w)
		log.Warn("nonrigid solver warning", "error", w)
	}
	for idx, rec := range records {
		if res, ok := nrResults[idx]; ok {
			rec.FwdDxDy = res.Fwd
			rec.BwdDxDy = res.Bwd
		} else {
			rec.FwdDxDy = warp.NewField(regShape)
			rec.BwdDxDy = warp.NewField(regShape)
		}
	}
	nonRigidElapsed := time.Since(nonRigidStart)

	if err := checkCancelled(ctx); err != nil {
		return nil, report, err
	}

	// ---- C7: micro registrar (optional) ---------------------------------
	var microRan bool
	if cfg.RunMicro {
		microRan = true
		for idx, rec := range records {
			if idx == referenceIdx {
				continue
			}
			fixedPix := canonImages[referenceIdx]
			movingPix := canonImages[idx]
			existing := &micro.Result{Fwd: rec.FwdDxDy, Bwd: rec.BwdDxDy}
			res, warnings, err := micro.Refine(fixedPix, movingPix, regShape.Rows, regShape.Cols, existing, cfg.Solver, cfg.MicroOpts)
			for _, w := range warnings {
				report.Warnings = append(report.Warnings, w)
				log.Warn("micro refinement warning", "slide", rec.Src, "error", w)
			}
			if err != nil {
				report.Warnings = append(report.Warnings, fmt.Errorf("micro: slide %s: %w", rec.Src, err))
				continue
			}
			rec.FwdDxDy = res.Fwd
			rec.BwdDxDy = res.Bwd
		}
	}

	// ---- C8: error measurement ------------------------------------------
	summary := measureStage(records, refined, featureSets, referenceIdx, microRan, rigidElapsed, nonRigidElapsed)
	report.Summary = summary

	if err := checkCancelled(ctx); err != nil {
		return set, report, err
	}

	if req.OutDir != "" {
		if err := persistArtifacts(req.OutDir, req.Name, set, cfg, summary); err != nil {
			return set, report, &StageError{Stage: "persist", Err: fmt.Errorf("%w: %v", ErrIOError, err)}
		}
	}

	return set, report, nil
}

func checkCancelled(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	return nil
}

// ingestStage runs C2 over every input in parallel, dropping any slide
// whose Reader fails unless it is the reference slide, in which case the
// whole run aborts (§7: "fatal for that slide; abort set if it is the
// reference").
func ingestStage(ctx context.Context, inputs []Input, referenceSrc string, cfg *Config, report *Report) ([]*slide.Record, []*slide.Plane, error) {
	type outcome struct {
		rec   *slide.Record
		plane *slide.Plane
		err   error
	}
	results := make([]outcome, len(inputs))
	budget := newRegionBudget(cfg.MaxRegionsInFlight)

	err := runStage(ctx, len(inputs), cfg.NumWorkers, func(ctx context.Context, i int) error {
		if err := budget.acquire(ctx); err != nil {
			return err
		}
		defer budget.release()

		in := inputs[i]
		dims, err := in.Reader.Dimensions()
		if err != nil {
			results[i] = outcome{err: err}
			return nil
		}
		phys, err := in.Reader.PhysicalPixelSize()
		if err != nil {
			results[i] = outcome{err: err}
			return nil
		}
		channels, err := in.Reader.Channels()
		if err != nil {
			results[i] = outcome{err: err}
			return nil
		}
		modality, err := in.Reader.ModalityGuess()
		if err != nil {
			results[i] = outcome{err: err}
			return nil
		}
		plane, _, err := slide.ReadScaled(in.Reader, cfg.MaxImageDim)
		if err != nil {
			results[i] = outcome{err: err}
			return nil
		}

		results[i] = outcome{
			rec: &slide.Record{
				Src:           in.Src,
				Pyramid:       dims,
				PhysicalPixel: phys,
				Modality:      modality,
				Channels:      channels,
			},
			plane: plane,
		}
		return nil
	})
	if err != nil {
		return nil, nil, &StageError{Stage: "ingest", Err: err}
	}

	var records []*slide.Record
	var planes []*slide.Plane
	for i, in := range inputs {
		o := results[i]
		if o.err == nil {
			records = append(records, o.rec)
			planes = append(planes, o.plane)
			continue
		}
		isReference := in.Src == referenceSrc || (referenceSrc == "" && i == 0)
		if isReference {
			return nil, nil, &StageError{Stage: "ingest", Slide: in.Src, Err: fmt.Errorf("%w: %v", ErrUnreadableSlide, o.err)}
		}
		w := fmt.Errorf("orchestrator: dropping slide %s from ingest: %w", in.Src, o.err)
		report.Warnings = append(report.Warnings, w)
		cfg.Logger.Warn("slide dropped at ingest", "src", in.Src, "error", o.err)
	}
	if len(records) == 0 {
		return nil, nil, &StageError{Stage: "ingest", Err: ErrNoSlides}
	}
	return records, planes, nil
}

// preprocessStage runs C3's per-slide reduction (brightfield
// colorfulness or fluorescence channel extraction) in parallel, setting
// each record's ShapeProc as a side effect. Planes already arrive at
// MaxImageDim resolution via slide.ReadScaled's level selection;
// ClampSizeContract only validates MaxProcessedImageDim <= MaxImageDim
// here (§4.3's size contract), since the default configuration has the
// two dimensions equal and there is no resampler available for the
// Plane's multi-channel uint16 raster.
func preprocessStage(ctx context.Context, records []*slide.Record, planes []*slide.Plane, cfg *Config) ([][]uint8, []*image.Gray, error) {
	maxSides := make([]int, len(planes))
	for i, p := range planes {
		maxSides[i] = maxInt(p.Rows, p.Cols)
	}
	if _, _, err := preprocess.ClampSizeContract(cfg.MaxProcessedImageDim, cfg.MaxImageDim, maxSides); err != nil {
		return nil, nil, &StageError{Stage: "preprocess", Err: err}
	}

	processed := make([][]uint8, len(records))
	masks := make([]*image.Gray, len(records))

	err := runStage(ctx, len(records), cfg.NumWorkers, func(ctx context.Context, i int) error {
		p := planes[i]
		rec := records[i]

		res, err := preprocess.For(p, rec.Channels, rec.Modality, preprocess.Options{MaskCloseRadius: cfg.MaskCloseRadius})
		if err != nil {
			return &StageError{Stage: "preprocess", Slide: rec.Src, Err: err}
		}
		rec.ShapeProc = warp.Shape{Rows: res.Image.Bounds().Dy(), Cols: res.Image.Bounds().Dx()}
		processed[i] = res.Image.Pix
		masks[i] = res.Mask
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return processed, masks, nil
}

// measureStage computes the four-distance error summary (§4.8) for
// every non-reference slide against its stack neighbor.
func measureStage(records []*slide.Record, refined map[[2]int][]features.Match, featureSets []features.FeatureSet, referenceIdx int, microRan bool, rigidElapsed, nonRigidElapsed time.Duration) []SummaryRow {
	ref := records[referenceIdx]
	refDiag := diagonal(ref.ShapeProc)

	var rows []SummaryRow
	for idx, rec := range records {
		if idx == referenceIdx || rec.FixedNeighbor < 0 {
			continue
		}
		fixedIdx := rec.FixedNeighbor
		fixedRec := records[fixedIdx]

		fixedPts, movingPts := pairPoints(refined, featureSets, fixedIdx, idx)
		if len(fixedPts) == 0 {
			continue
		}

		fixedChains := StageChains{
			Raw:      identityChain(fixedRec),
			Rigid:    rigidOnlyChain(fixedRec),
			NonRigid: fixedRec.Chain(),
		}
		movingChains := StageChains{
			Raw:      identityChain(rec),
			Rigid:    rigidOnlyChain(rec),
			NonRigid: rec.Chain(),
		}
		if microRan {
			fixedChains.Micro = fixedRec.Chain()
			movingChains.Micro = rec.Chain()
		}

		d, rtre, err := Measure(fixedChains, movingChains, fixedPts, movingPts, rec.PhysicalPixel.XSize, refDiag)
		if err != nil {
			continue
		}

		rows = append(rows, SummaryRow{
			Filename:            rec.Src,
			From:                fixedRec.Src,
			To:                  rec.Src,
			OriginalD:           d.Raw,
			OriginalRTRE:        rtre.Raw,
			RigidD:              d.Rigid,
			RigidRTRE:           rtre.Rigid,
			NonRigidD:           d.NonRigid,
			NonRigidRTRE:        rtre.NonRigid,
			ProcessedImgShape:   shapeString(rec.ShapeProc),
			Shape:               shapeString(rec.SrcShape()),
			AlignedShape:        shapeString(rec.RegShape),
			PhysicalUnits:       rec.PhysicalPixel.Unit,
			Resolution:          rec.PhysicalPixel.XSize,
			Name:                rec.Src,
			RigidTimeMinutes:    rigidElapsed.Minutes(),
			NonRigidTimeMinutes: nonRigidElapsed.Minutes(),
			NumMatches:          len(fixedPts),
		})
	}

	medians := make([]float64, len(rows))
	rigidMedians := make([]float64, len(rows))
	nrMedians := make([]float64, len(rows))
	weights := make([]int, len(rows))
	for i, r := range rows {
		medians[i] = r.OriginalD
		rigidMedians[i] = r.RigidD
		nrMedians[i] = r.NonRigidD
		weights[i] = r.NumMatches
	}
	meanOriginal := WeightedMean(medians, weights)
	meanRigid := WeightedMean(rigidMedians, weights)
	meanNonRigid := WeightedMean(nrMedians, weights)
	for i := range rows {
		rows[i].MeanOriginalD = meanOriginal
		rows[i].MeanRigidD = meanRigid
		rows[i].MeanNonRigidD = meanNonRigid
	}
	return rows
}

func identityChain(rec *slide.Record) *warp.Chain {
	return &warp.Chain{SrcShape: rec.SrcShape(), ShapeProc: rec.ShapeProc, RegShape: rec.ShapeProc, Rigid: warp.Identity3()}
}

func rigidOnlyChain(rec *slide.Record) *warp.Chain {
	return &warp.Chain{SrcShape: rec.SrcShape(), ShapeProc: rec.ShapeProc, RegShape: rec.RegShape, Rigid: rec.RigidM}
}

func diagonal(s warp.Shape) float64 {
	return math.Sqrt(float64(s.Rows)*float64(s.Rows) + float64(s.Cols)*float64(s.Cols))
}

func shapeString(s warp.Shape) string {
	return fmt.Sprintf("(%d, %d)", s.Rows, s.Cols)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func grayImage(pix []uint8, s warp.Shape) *image.Gray {
	return &image.Gray{Pix: pix, Stride: s.Cols, Rect: image.Rect(0, 0, s.Cols, s.Rows)}
}

func grayY(c color.Color) uint8 {
	gr := color.GrayModel.Convert(c).(color.Gray)
	return gr.Y
}

func fullMask(s warp.Shape) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, s.Cols, s.Rows))
	for i := range m.Pix {
		m.Pix[i] = 255
	}
	return m
}
