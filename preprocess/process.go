package preprocess

import (
	"image"

	"github.com/crobbins327/valis/slide"
)

// Result is the output of processing one slide's scaled image: a
// single-channel 8-bit image and a co-located binary tissue mask (§4.3).
type Result struct {
	Image *image.Gray
	Mask  *image.Gray
}

// Options configures a single slide's preprocessing pass.
type Options struct {
	FluorescenceChannel string // defaults to DefaultFluorescenceChannel
	MaskCloseRadius     int
	DenoiseRadius       int
	TileSize            int // for AdaptiveEqualize
}

// For reduces a decoded Plane to a Result according to the slide's
// modality, dispatching between the brightfield colorfulness path and
// the fluorescence channel-extraction path (§4.3). It does not apply
// pooled normalization or the rigid-only denoise pass; callers run
// Normalize and DenoiseForRigid separately once every slide's Result is
// available and pooled statistics can be computed.
func For(p *slide.Plane, channels []slide.Channel, modality slide.Modality, opts Options) (*Result, error) {
	rows, cols := p.Rows, p.Cols

	var score []uint8
	switch modality {
	case slide.Fluorescence:
		name := opts.FluorescenceChannel
		if name == "" {
			name = DefaultFluorescenceChannel
		}
		ch, err := ExtractChannel(p, channels, name)
		if err != nil {
			return nil, err
		}
		tile := opts.TileSize
		if tile == 0 {
			tile = rows
		}
		score = AdaptiveEqualize(ch, rows, cols, tile)
	default:
		score = Colorfulness(p)
	}

	mask := TissueMask(score, rows, cols, opts.MaskCloseRadius)
	img := &image.Gray{Pix: score, Stride: cols, Rect: image.Rect(0, 0, cols, rows)}
	return &Result{Image: img, Mask: mask}, nil
}
