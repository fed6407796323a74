// Package tiffio encodes and decodes the two-band float32 tiled TIFF
// files used to spill displacement fields to disk when a set's total
// in-memory displacement budget is exceeded (§4.7, §6). The IFD field
// layout (tiled, chunky two-sample IEEE-float pixels, LZW-compressed
// tiles, plus a private tag carrying the field's canonical-frame bbox)
// follows the same hand-rolled-tiled-IFD approach as a COG writer that
// builds its IFD by hand rather than through a decoder-only library.
// Tile compression uses the standard library's compress/lzw in TIFF's
// MSB bit order; no full BigTIFF (64-bit offset) support is implemented
// since a spilled field is always a bounded nr_bbox sub-region, well
// under the 32-bit offset range classic TIFF allows — a deliberate scope
// cut, not an oversight.
package tiffio
