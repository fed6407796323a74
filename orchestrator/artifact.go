package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crobbins327/valis/slide"
	"github.com/crobbins327/valis/warp"
)

// ArtifactVersion tags the persisted set artifact's schema.
const ArtifactVersion = "1"

// SlideArtifact is one slide record's persisted shape, minus raw pixels:
// the rigid matrix is flattened row-major, and displacement fields are
// referenced by path (relative to the artifact's own directory) rather
// than inlined, since they're spilled to tiled TIFFs (§6).
type SlideArtifact struct {
	Src string `json:"src"`

	Pyramid       []slide.Dims        `json:"pyramid"`
	PhysicalPixel slide.PhysicalPixel `json:"physical_pixel"`
	Modality      slide.Modality      `json:"modality"`
	Channels      []slide.Channel     `json:"channels"`

	ShapeProc warp.Shape `json:"shape_proc"`
	RigidM    [9]float64 `json:"rigid_m"`
	RegShape  warp.Shape `json:"reg_shape"`

	FwdDxDyPath string `json:"fwd_dxdy_path,omitempty"`
	BwdDxDyPath string `json:"bwd_dxdy_path,omitempty"`

	StackIdx      int `json:"stack_idx"`
	FixedNeighbor int `json:"fixed_neighbor"`
}

// Artifact is the persisted set-level record (§6 "Persisted set
// artifact"): version tag, every slide record, the canonical frame, the
// crop mode, normalization stats, and collaborator names. Crop masks
// (neither their images nor their bounding boxes) are not persisted.
type Artifact struct {
	Version string `json:"version"`

	Slides       []SlideArtifact `json:"slides"`
	ReferenceIdx int             `json:"reference_idx"`
	CropMode     warp.CropMode   `json:"crop_mode"`
	RegShape     warp.Shape      `json:"reg_shape"`

	TargetStats slide.TargetStats `json:"target_stats"`

	DetectorName string `json:"detector_name"`
	SolverName   string `json:"solver_name"`

	// dir is the artifact file's enclosing directory, set on Load so
	// ResolvePath can re-resolve spill paths after a move to a
	// different host (§6).
	dir string
}

// BuildArtifact snapshots set into its persisted form. fwdPaths/bwdPaths
// index by slide, holding the spill path (relative to dir) for any
// slide whose displacement field was written to disk; a slide absent
// from either map keeps its field in memory only (FwdDxDyPath/
// BwdDxDyPath left empty).
func BuildArtifact(set *slide.Set, detectorName, solverName string, fwdPaths, bwdPaths map[int]string) *Artifact {
	a := &Artifact{
		Version:      ArtifactVersion,
		ReferenceIdx: set.ReferenceIdx,
		CropMode:     set.CropMode,
		TargetStats:  set.TargetStats,
		DetectorName: detectorName,
		SolverName:   solverName,
	}
	if len(set.Records) > 0 {
		a.RegShape = set.Records[0].RegShape
	}
	for i, r := range set.Records {
		sa := SlideArtifact{
			Src:           r.Src,
			Pyramid:       r.Pyramid,
			PhysicalPixel: r.PhysicalPixel,
			Modality:      r.Modality,
			Channels:      r.Channels,
			ShapeProc:     r.ShapeProc,
			RegShape:      r.RegShape,
			StackIdx:      r.StackIdx,
			FixedNeighbor: r.FixedNeighbor,
			FwdDxDyPath:   fwdPaths[i],
			BwdDxDyPath:   bwdPaths[i],
		}
		if r.RigidM != nil {
			for row := 0; row < 3; row++ {
				for col := 0; col < 3; col++ {
					sa.RigidM[row*3+col] = r.RigidM.At(row, col)
				}
			}
		}
		a.Slides = append(a.Slides, sa)
	}
	return a
}

// Save writes a as JSON to path, creating parent directories as needed.
func Save(a *Artifact, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return nil
}

// Load reads the artifact at path and records its enclosing directory
// for ResolvePath.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOError, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOError, err)
	}
	a.dir = filepath.Dir(path)
	return &a, nil
}

// ResolvePath returns rel's absolute path, resolved against the
// artifact's own enclosing directory (set by Load) rather than any
// path baked in at Save time, so a relocated artifact directory still
// finds its spilled displacement files (§6).
func (a *Artifact) ResolvePath(rel string) string {
	if rel == "" {
		return ""
	}
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(a.dir, rel)
}
