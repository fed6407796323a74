package orchestrator

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/crobbins327/valis/internal/tiffio"
	"github.com/crobbins327/valis/slide"
	"github.com/crobbins327/valis/warp"
)

// persistArtifacts writes every §6 emitted artifact under dir/name: PNG
// previews per stage, colored deformation-field grids, overlap
// composites, the JSON artifact header, the displacement TIFF spills,
// and the CSV summary (when summary is non-nil).
func persistArtifacts(dir, name string, set *slide.Set, cfg *Config, summary []SummaryRow) error {
	root := filepath.Join(dir, name)
	dirs := []string{
		"images", "processed", "masks",
		"rigid_registration", "non_rigid_registration",
		"deformation_fields", "overlaps", "data", "data/displacements",
	}
	if cfg.RunMicro {
		dirs = append(dirs, "micro_registration")
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrIOError, err)
		}
	}

	fwdPaths := make(map[int]string, len(set.Records))
	bwdPaths := make(map[int]string, len(set.Records))

	for i, rec := range set.Records {
		fname := fmt.Sprintf("%02d_%s.png", rec.StackIdx, baseName(rec.Src))

		if rec.ImageThumb != nil {
			if err := writePNG(filepath.Join(root, "images", fname), rec.ImageThumb); err != nil {
				return err
			}
			if err := writePNG(filepath.Join(root, "processed", fname), rec.ImageThumb); err != nil {
				return err
			}
			if err := writePNG(filepath.Join(root, "rigid_registration", fname), rec.ImageThumb); err != nil {
				return err
			}
		}
		if rec.MaskThumb != nil {
			if err := writePNG(filepath.Join(root, "masks", fname), maskOutline(rec.MaskThumb)); err != nil {
				return err
			}
		}
		if rec.FwdDxDy != nil {
			warped, err := warp.WarpImage(rec.ImageThumb, warp.Identity3(), rec.BwdDxDy, rec.RegShape, rec.RegShape, rec.RegShape, nil, rec.BgColor.Y, warp.Bilinear)
			if err == nil {
				if err := writePNG(filepath.Join(root, "non_rigid_registration", fname), warped); err != nil {
					return err
				}
			}
			if err := writePNG(filepath.Join(root, "deformation_fields", fname), deformationGrid(rec.FwdDxDy, 16)); err != nil {
				return err
			}
			if !rec.IsReference() {
				fwdRel := filepath.Join("displacements", fmt.Sprintf("%s_fwd_dxdy.tiff", baseName(rec.Src)))
				bwdRel := filepath.Join("displacements", fmt.Sprintf("%s_bk_dxdy.tiff", baseName(rec.Src)))
				if err := spillField(filepath.Join(root, "data", fwdRel), rec.FwdDxDy, set.CropMasks[cfg.CropMode].BBox); err != nil {
					return err
				}
				if err := spillField(filepath.Join(root, "data", bwdRel), rec.BwdDxDy, set.CropMasks[cfg.CropMode].BBox); err != nil {
					return err
				}
				fwdPaths[i] = fwdRel
				bwdPaths[i] = bwdRel
			}
		}
		if cfg.RunMicro && rec.FwdDxDy != nil {
			if err := writePNG(filepath.Join(root, "micro_registration", fname), rec.ImageThumb); err != nil {
				return err
			}
		}
	}

	if err := writeOverlaps(root, set, cfg); err != nil {
		return err
	}

	artifact := BuildArtifact(set, cfg.DetectorName, cfg.SolverName, fwdPaths, bwdPaths)
	if err := Save(artifact, filepath.Join(root, "data", "data.json")); err != nil {
		return err
	}

	if summary != nil {
		f, err := os.Create(filepath.Join(root, "data", "summary.csv"))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrIOError, err)
		}
		defer f.Close()
		if err := WriteCSV(f, summary); err != nil {
			return err
		}
	}
	return nil
}

func baseName(src string) string {
	b := filepath.Base(src)
	return b[:len(b)-len(filepath.Ext(b))]
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return nil
}

// maskOutline draws the tissue mask's border (a foreground pixel
// adjacent to a background one) at full white over a black field, the
// "tissue-mask outlines drawn on processed images" preview (§6).
func maskOutline(mask *image.Gray) *image.Gray {
	b := mask.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.GrayAt(x, y).Y == 0 {
				continue
			}
			border := x == b.Min.X || y == b.Min.Y || x == b.Max.X-1 || y == b.Max.Y-1 ||
				mask.GrayAt(x-1, y).Y == 0 || mask.GrayAt(x+1, y).Y == 0 ||
				mask.GrayAt(x, y-1).Y == 0 || mask.GrayAt(x, y+1).Y == 0
			if border {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// deformationGrid renders a regular grid warped forward through f,
// colored by displacement magnitude, as the deformation_fields preview
// (§6's "colored grid warped by the displacement field").
func deformationGrid(f *warp.Field, spacing int) *image.RGBA {
	if spacing <= 0 {
		spacing = 16
	}
	out := image.NewRGBA(image.Rect(0, 0, f.Cols, f.Rows))
	var maxMag float32
	for _, v := range f.Dx {
		if m := absf32(v); m > maxMag {
			maxMag = m
		}
	}
	for _, v := range f.Dy {
		if m := absf32(v); m > maxMag {
			maxMag = m
		}
	}
	if maxMag == 0 {
		maxMag = 1
	}

	for y := 0; y < f.Rows; y++ {
		for x := 0; x < f.Cols; x++ {
			onGrid := x%spacing == 0 || y%spacing == 0
			if !onGrid {
				continue
			}
			i := y*f.Cols + x
			mag := float32(absf32(f.Dx[i]) + absf32(f.Dy[i]))
			t := mag / (2 * maxMag)
			if t > 1 {
				t = 1
			}
			out.Set(x, y, color.RGBA{R: uint8(255 * t), G: uint8(255 * (1 - t)), B: 128, A: 255})
		}
	}
	return out
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// spillField writes one field's displacement bands to a tiled TIFF,
// cropped to bbox, alongside the artifact (§6 "data/displacements").
func spillField(path string, f *warp.Field, bbox warp.Rect) error {
	cropped := f
	if bbox.W > 0 && bbox.H > 0 {
		cropped = warp.Crop(f, bbox)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	defer file.Close()
	tb := tiffio.BBox{X: int32(bbox.X), Y: int32(bbox.Y), W: int32(bbox.W), H: int32(bbox.H)}
	if err := tiffio.WriteField(file, cropped.Rows, cropped.Cols, cropped.Dx, cropped.Dy, tb); err != nil {
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return nil
}

// writeOverlaps writes three (or four, when micro ran) composite previews
// under overlaps/ (§6). Records hold only their canonical-frame
// (rigid-warped) thumbnail, so original.png and rigid.png are the same
// composite of those thumbnails; non_rigid.png composites them after the
// backward field is applied, and micro.png repeats that non-rigid
// composite.
func writeOverlaps(root string, set *slide.Set, cfg *Config) error {
	if len(set.Records) == 0 || set.Records[0].RegShape.Rows == 0 {
		return nil
	}
	regShape := set.Records[0].RegShape

	original := compositeMax(set.Records, regShape, func(r *slide.Record) *image.Gray { return r.ImageThumb })
	if err := writePNG(filepath.Join(root, "overlaps", "original.png"), original); err != nil {
		return err
	}
	if err := writePNG(filepath.Join(root, "overlaps", "rigid.png"), original); err != nil {
		return err
	}

	nonRigid := compositeMax(set.Records, regShape, func(r *slide.Record) *image.Gray {
		if r.FwdDxDy == nil {
			return r.ImageThumb
		}
		warped, err := warp.WarpImage(r.ImageThumb, warp.Identity3(), r.BwdDxDy, r.RegShape, r.RegShape, r.RegShape, nil, r.BgColor.Y, warp.Bilinear)
		if err != nil {
			return r.ImageThumb
		}
		return warped
	})
	if err := writePNG(filepath.Join(root, "overlaps", "non_rigid.png"), nonRigid); err != nil {
		return err
	}
	if cfg.RunMicro {
		if err := writePNG(filepath.Join(root, "overlaps", "micro.png"), nonRigid); err != nil {
			return err
		}
	}
	return nil
}

// compositeMax overlays every slide's extract(record) via a per-pixel
// maximum, a simple order-independent composite for the overlap
// previews.
func compositeMax(records []*slide.Record, shape warp.Shape, extract func(*slide.Record) *image.Gray) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, shape.Cols, shape.Rows))
	for _, rec := range records {
		img := extract(rec)
		if img == nil {
			continue
		}
		b := img.Bounds()
		for y := 0; y < shape.Rows && y < b.Dy(); y++ {
			for x := 0; x < shape.Cols && x < b.Dx(); x++ {
				v := img.GrayAt(b.Min.X+x, b.Min.Y+y).Y
				if v > out.GrayAt(x, y).Y {
					out.SetGray(x, y, color.Gray{Y: v})
				}
			}
		}
	}
	return out
}
