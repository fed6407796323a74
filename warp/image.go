package warp

import (
	"image"
	"image/color"

	"gonum.org/v1/gonum/mat"
)

// Interp selects the resampling kernel used by WarpImage.
type Interp int

const (
	// Nearest samples the closest source pixel.
	Nearest Interp = iota
	// Bilinear blends the four nearest source pixels.
	Bilinear
)

// WarpImage implements the warp_image primitive: it pulls a destination
// image of shape outShape from src, where src is assumed to live at
// srcShape and m/bk map srcShape-native coordinates to dstShape-canonical
// coordinates (i.e. the inverse chain samples src at
// m⁻¹(canonical + bk[canonical])). bboxCrop, if non-nil, restricts the
// output to that sub-rectangle of outShape (the crop modes of §4.1).
// Pixels pulled from outside src's bounds are filled with bgColor.
func WarpImage(src *image.Gray, m *mat.Dense, bk *Field, srcShape, dstShape, outShape Shape, bboxCrop *Rect, bgColor uint8, interp Interp) (*image.Gray, error) {
	_ = srcShape
	_ = dstShape
	minv, err := Invert(m)
	if err != nil {
		return nil, err
	}

	region := Rect{X: 0, Y: 0, W: outShape.Cols, H: outShape.Rows}
	if bboxCrop != nil {
		region = *bboxCrop
	}
	dst := image.NewGray(image.Rect(0, 0, region.W, region.H))
	for row := 0; row < region.H; row++ {
		cy := float64(region.Y + row)
		for col := 0; col < region.W; col++ {
			cx := float64(region.X + col)
			sx, sy := cx, cy
			if bk != nil {
				dx, dy := bk.At(cx, cy)
				sx += float64(dx)
				sy += float64(dy)
			}
			x := minv.At(0, 0)*sx + minv.At(0, 1)*sy + minv.At(0, 2)
			y := minv.At(1, 0)*sx + minv.At(1, 1)*sy + minv.At(1, 2)

			v, ok := sampleGray(src, x, y, interp)
			if !ok {
				v = bgColor
			}
			dst.SetGray(col, row, color.Gray{Y: v})
		}
	}
	return dst, nil
}

func sampleGray(src *image.Gray, x, y float64, interp Interp) (uint8, bool) {
	b := src.Bounds()
	if x < float64(b.Min.X) || x >= float64(b.Max.X)-1e-9 || y < float64(b.Min.Y) || y >= float64(b.Max.Y)-1e-9 {
		return 0, false
	}
	if interp == Nearest {
		return src.GrayAt(int(x+0.5), int(y+0.5)).Y, true
	}
	x0, y0 := int(x), int(y)
	x1, y1 := x0+1, y0+1
	if x1 >= b.Max.X {
		x1 = b.Max.X - 1
	}
	if y1 >= b.Max.Y {
		y1 = b.Max.Y - 1
	}
	fx, fy := x-float64(x0), y-float64(y0)

	v00 := float64(src.GrayAt(x0, y0).Y)
	v10 := float64(src.GrayAt(x1, y0).Y)
	v01 := float64(src.GrayAt(x0, y1).Y)
	v11 := float64(src.GrayAt(x1, y1).Y)

	top := v00*(1-fx) + v10*fx
	bot := v01*(1-fx) + v11*fx
	return uint8(top*(1-fy) + bot*fy + 0.5), true
}
