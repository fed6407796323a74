package tiffio

import (
	"bytes"
	"testing"
)

func TestWriteReadFieldRoundTrip(t *testing.T) {
	rows, cols := 300, 400 // spans multiple tiles at TileSize=256
	dx := make([]float32, rows*cols)
	dy := make([]float32, rows*cols)
	for i := range dx {
		dx[i] = float32(i%17) - 8
		dy[i] = float32(i%23) * 0.5
	}
	bbox := BBox{X: 10, Y: 20, W: int32(cols), H: int32(rows)}

	var buf bytes.Buffer
	if err := WriteField(&buf, rows, cols, dx, dy, bbox); err != nil {
		t.Fatalf("WriteField: %v", err)
	}

	gotRows, gotCols, gotDx, gotDy, gotBBox, err := ReadField(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("ReadField: %v", err)
	}
	if gotRows != rows || gotCols != cols {
		t.Fatalf("shape mismatch: got %dx%d want %dx%d", gotRows, gotCols, rows, cols)
	}
	if gotBBox != bbox {
		t.Fatalf("bbox mismatch: got %+v want %+v", gotBBox, bbox)
	}
	for i := range dx {
		if gotDx[i] != dx[i] || gotDy[i] != dy[i] {
			t.Fatalf("pixel %d mismatch: got (%v,%v) want (%v,%v)", i, gotDx[i], gotDy[i], dx[i], dy[i])
		}
	}
}

func TestWriteFieldRejectsEmptyShape(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteField(&buf, 0, 10, nil, nil, BBox{}); err != ErrShape {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestReadFieldRejectsBadMagic(t *testing.T) {
	bad := bytes.Repeat([]byte{0xff}, 16)
	_, _, _, _, _, err := ReadField(bytes.NewReader(bad), int64(len(bad)))
	if err != ErrBadMagic {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestWriteFieldSingleTileFitsInline(t *testing.T) {
	rows, cols := 8, 8
	dx := make([]float32, rows*cols)
	dy := make([]float32, rows*cols)
	var buf bytes.Buffer
	if err := WriteField(&buf, rows, cols, dx, dy, BBox{W: int32(cols), H: int32(rows)}); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	gotRows, gotCols, _, _, _, err := ReadField(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("ReadField: %v", err)
	}
	if gotRows != rows || gotCols != cols {
		t.Fatalf("shape mismatch: got %dx%d want %dx%d", gotRows, gotCols, rows, cols)
	}
}
