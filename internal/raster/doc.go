// Package raster provides the bilinear resampling primitives shared by
// warp, preprocess, nonrigid, and micro: resizing 8-bit images (backed by
// golang.org/x/image/draw), resizing and point-sampling raw float32
// displacement-field bands, and the Hann-window blend used to stitch
// tiled micro-registration fields.
package raster
