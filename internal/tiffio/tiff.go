package tiffio

import (
	"bytes"
	"compress/lzw"
	"encoding/binary"
	"io"
	"math"
	"sort"
)

const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagSamplesPerPixel = 277
	tagTileWidth       = 322
	tagTileLength      = 323
	tagTileOffsets     = 324
	tagTileByteCounts  = 325
	tagSampleFormat    = 339
	tagBBox            = 65000 // private tag: canonical-frame bbox (x, y, w, h)

	typeShort = 3
	typeLong  = 4

	compressionLZW   = 5
	sampleFormatIEEE = 3

	// TileSize is the tile side used for spilled displacement fields.
	TileSize = 256
)

var byteOrder = binary.LittleEndian

type ifdEntry struct {
	tag, typ      uint16
	count         uint32
	valueOrOffset uint32
}

// BBox is the canonical-frame bounding box a spilled field was solved
// within; PadDisplacement reconstructs the full frame from it.
type BBox struct{ X, Y, W, H int32 }

// WriteField encodes a two-band float32 row-major field (rows×cols,
// interleaved dx/dy per pixel) as a tiled, LZW-compressed TIFF, tagging
// the field's canonical-frame bbox in a private tag.
func WriteField(w io.Writer, rows, cols int, dx, dy []float32, bbox BBox) error {
	if rows <= 0 || cols <= 0 {
		return ErrShape
	}

	tilesX := (cols + TileSize - 1) / TileSize
	tilesY := (rows + TileSize - 1) / TileSize
	numTiles := tilesX * tilesY

	compressed := make([][]byte, numTiles)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			raw := extractTile(dx, dy, rows, cols, tx*TileSize, ty*TileSize, TileSize, TileSize)
			compressed[ty*tilesX+tx] = lzwCompress(raw)
		}
	}

	entries := []ifdEntry{
		{tagImageWidth, typeLong, 1, uint32(cols)},
		{tagImageLength, typeLong, 1, uint32(rows)},
		{tagBitsPerSample, typeShort, 2, packTwoShorts(32, 32)},
		{tagCompression, typeShort, 1, compressionLZW},
		{tagPhotometric, typeShort, 1, 1},
		{tagSamplesPerPixel, typeShort, 1, 2},
		{tagTileWidth, typeLong, 1, TileSize},
		{tagTileLength, typeLong, 1, TileSize},
		{tagSampleFormat, typeShort, 2, packTwoShorts(sampleFormatIEEE, sampleFormatIEEE)},
	}

	// Tags whose values don't fit inline need an external data block;
	// their valueOrOffset is filled in once the layout below is known.
	tileOffsetsTag := ifdEntry{tagTileOffsets, typeLong, uint32(numTiles), 0}
	tileByteCountsTag := ifdEntry{tagTileByteCounts, typeLong, uint32(numTiles), 0}
	bboxTag := ifdEntry{tagBBox, typeLong, 4, 0}
	entries = append(entries, tileOffsetsTag, tileByteCountsTag, bboxTag)
	sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })

	const headerSize = 8
	ifdSize := 2 + 12*len(entries) + 4
	extraOffset := headerSize + ifdSize

	tileOffsetsOff := extraOffset
	tileByteCountsOff := tileOffsetsOff + 4*numTiles
	bboxOff := tileByteCountsOff + 4*numTiles
	tileDataOff := bboxOff + 16

	tileOffsets := make([]uint32, numTiles)
	tileByteCounts := make([]uint32, numTiles)
	cursor := uint32(tileDataOff)
	for i, c := range compressed {
		tileOffsets[i] = cursor
		tileByteCounts[i] = uint32(len(c))
		cursor += uint32(len(c))
	}

	for i := range entries {
		switch entries[i].tag {
		case tagTileOffsets:
			entries[i].valueOrOffset = uint32(tileOffsetsOff)
			if numTiles == 1 {
				// A single LONG fits in the entry's own value field.
				entries[i].valueOrOffset = tileOffsets[0]
			}
		case tagTileByteCounts:
			entries[i].valueOrOffset = uint32(tileByteCountsOff)
			if numTiles == 1 {
				entries[i].valueOrOffset = tileByteCounts[0]
			}
		case tagBBox:
			entries[i].valueOrOffset = uint32(bboxOff)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("II")
	binary.Write(&buf, byteOrder, uint16(42))
	binary.Write(&buf, byteOrder, uint32(headerSize))

	binary.Write(&buf, byteOrder, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(&buf, byteOrder, e.tag)
		binary.Write(&buf, byteOrder, e.typ)
		binary.Write(&buf, byteOrder, e.count)
		binary.Write(&buf, byteOrder, e.valueOrOffset)
	}
	binary.Write(&buf, byteOrder, uint32(0)) // no next IFD

	for _, v := range tileOffsets {
		binary.Write(&buf, byteOrder, v)
	}
	for _, v := range tileByteCounts {
		binary.Write(&buf, byteOrder, v)
	}
	binary.Write(&buf, byteOrder, uint32(bbox.X))
	binary.Write(&buf, byteOrder, uint32(bbox.Y))
	binary.Write(&buf, byteOrder, uint32(bbox.W))
	binary.Write(&buf, byteOrder, uint32(bbox.H))

	for _, c := range compressed {
		buf.Write(c)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func packTwoShorts(a, b uint16) uint32 {
	return uint32(a) | uint32(b)<<16
}

// extractTile pulls a tileW×tileH window of interleaved (dx,dy) float32
// pairs starting at (x0, y0) from the full rows×cols bands, zero-padding
// past the image edge, and returns it as raw little-endian bytes.
func extractTile(dx, dy []float32, rows, cols, x0, y0, tileW, tileH int) []byte {
	out := make([]byte, tileW*tileH*8)
	for ty := 0; ty < tileH; ty++ {
		y := y0 + ty
		if y >= rows {
			continue
		}
		for tx := 0; tx < tileW; tx++ {
			x := x0 + tx
			if x >= cols {
				continue
			}
			i := y*cols + x
			o := (ty*tileW + tx) * 8
			byteOrder.PutUint32(out[o:], math.Float32bits(dx[i]))
			byteOrder.PutUint32(out[o+4:], math.Float32bits(dy[i]))
		}
	}
	return out
}

func lzwCompress(raw []byte) []byte {
	var buf bytes.Buffer
	zw := lzw.NewWriter(&buf, lzw.MSB, 8)
	zw.Write(raw)
	zw.Close()
	return buf.Bytes()
}

func lzwDecompress(compressed []byte, rawSize int) ([]byte, error) {
	zr := lzw.NewReader(bytes.NewReader(compressed), lzw.MSB, 8)
	defer zr.Close()
	out := make([]byte, rawSize)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadField decodes a TIFF produced by WriteField back into row-major
// dx/dy bands plus the bbox stashed in the private tag.
func ReadField(r io.ReaderAt, size int64) (rows, cols int, dx, dy []float32, bbox BBox, err error) {
	hdr := make([]byte, 8)
	if _, err = r.ReadAt(hdr, 0); err != nil {
		return
	}
	if hdr[0] != 'I' || hdr[1] != 'I' || byteOrder.Uint16(hdr[2:4]) != 42 {
		err = ErrBadMagic
		return
	}
	ifdOff := int64(byteOrder.Uint32(hdr[4:8]))

	countBuf := make([]byte, 2)
	if _, err = r.ReadAt(countBuf, ifdOff); err != nil {
		return
	}
	numEntries := int(byteOrder.Uint16(countBuf))

	entryBuf := make([]byte, 12*numEntries)
	if _, err = r.ReadAt(entryBuf, ifdOff+2); err != nil {
		return
	}

	var tileWidth, tileLength, numTiles int
	var tileOffsetsOff, tileByteCountsOff int64
	var tileOffsetsInline, tileByteCountsInline uint32
	var samplesPerPixel int

	for i := 0; i < numEntries; i++ {
		e := entryBuf[i*12 : i*12+12]
		tag := byteOrder.Uint16(e[0:2])
		typ := byteOrder.Uint16(e[2:4])
		count := byteOrder.Uint32(e[4:8])
		val := e[8:12]
		switch tag {
		case tagImageWidth:
			cols = int(byteOrder.Uint32(val))
		case tagImageLength:
			rows = int(byteOrder.Uint32(val))
		case tagSamplesPerPixel:
			samplesPerPixel = int(byteOrder.Uint16(val[0:2]))
		case tagTileWidth:
			tileWidth = int(byteOrder.Uint32(val))
		case tagTileLength:
			tileLength = int(byteOrder.Uint32(val))
		case tagTileOffsets:
			numTiles = int(count)
			if numTiles == 1 {
				tileOffsetsInline = byteOrder.Uint32(val)
			} else {
				tileOffsetsOff = int64(byteOrder.Uint32(val))
			}
		case tagTileByteCounts:
			if numTiles == 1 {
				tileByteCountsInline = byteOrder.Uint32(val)
			} else {
				tileByteCountsOff = int64(byteOrder.Uint32(val))
			}
		case tagBBox:
			bboxOff := int64(byteOrder.Uint32(val))
			bb := make([]byte, 16)
			if _, err = r.ReadAt(bb, bboxOff); err != nil {
				return
			}
			bbox = BBox{
				X: int32(byteOrder.Uint32(bb[0:4])),
				Y: int32(byteOrder.Uint32(bb[4:8])),
				W: int32(byteOrder.Uint32(bb[8:12])),
				H: int32(byteOrder.Uint32(bb[12:16])),
			}
		default:
			_ = typ
		}
	}

	if samplesPerPixel != 2 {
		err = ErrUnsupported
		return
	}
	if rows <= 0 || cols <= 0 {
		err = ErrShape
		return
	}

	tileOffsets := make([]uint32, numTiles)
	tileByteCounts := make([]uint32, numTiles)
	if numTiles == 1 {
		tileOffsets[0] = tileOffsetsInline
		tileByteCounts[0] = tileByteCountsInline
	} else {
		ob := make([]byte, 4*numTiles)
		if _, err = r.ReadAt(ob, tileOffsetsOff); err != nil {
			return
		}
		cb := make([]byte, 4*numTiles)
		if _, err = r.ReadAt(cb, tileByteCountsOff); err != nil {
			return
		}
		for i := 0; i < numTiles; i++ {
			tileOffsets[i] = byteOrder.Uint32(ob[i*4 : i*4+4])
			tileByteCounts[i] = byteOrder.Uint32(cb[i*4 : i*4+4])
		}
	}

	dx = make([]float32, rows*cols)
	dy = make([]float32, rows*cols)

	tilesX := (cols + tileWidth - 1) / tileWidth
	rawTileSize := tileWidth * tileLength * 8

	for idx := 0; idx < numTiles; idx++ {
		compressed := make([]byte, tileByteCounts[idx])
		if _, err = r.ReadAt(compressed, int64(tileOffsets[idx])); err != nil {
			return
		}
		var raw []byte
		raw, err = lzwDecompress(compressed, rawTileSize)
		if err != nil {
			return
		}
		tx := idx % tilesX
		ty := idx / tilesX
		x0 := tx * tileWidth
		y0 := ty * tileLength
		scatterTile(raw, dx, dy, rows, cols, x0, y0, tileWidth, tileLength)
	}

	return rows, cols, dx, dy, bbox, nil
}

func scatterTile(raw []byte, dx, dy []float32, rows, cols, x0, y0, tileW, tileH int) {
	for ty := 0; ty < tileH; ty++ {
		y := y0 + ty
		if y >= rows {
			continue
		}
		for tx := 0; tx < tileW; tx++ {
			x := x0 + tx
			if x >= cols {
				continue
			}
			o := (ty*tileW + tx) * 8
			i := y*cols + x
			dx[i] = math.Float32frombits(byteOrder.Uint32(raw[o : o+4]))
			dy[i] = math.Float32frombits(byteOrder.Uint32(raw[o+4 : o+8]))
		}
	}
}
