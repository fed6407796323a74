package micro

// Tile is one tile's placement in the full frame, already clipped to the
// frame bounds.
type Tile struct {
	X0, Y0, Rows, Cols int
}

// padToMultiple rounds n up to the next multiple of m.
func padToMultiple(n, m int) int {
	if n%m == 0 {
		return n
	}
	return n + (m - n%m)
}

// PlanTiles covers a rows×cols frame with tileSize tiles (side padded to
// a multiple of 16, per §4.10's micro_tile_size policy), overlapping
// neighbors by overlap pixels so the Hann-window stitch has a margin to
// blend across.
func PlanTiles(rows, cols, tileSize, overlap int) []Tile {
	side := padToMultiple(tileSize, 16)
	if overlap < 0 {
		overlap = 0
	}
	stride := side - overlap
	if stride <= 0 {
		stride = side
	}

	var tiles []Tile
	for y0 := 0; y0 < rows; y0 += stride {
		h := side
		if y0+h > rows {
			h = rows - y0
		}
		if h <= 0 {
			continue
		}
		for x0 := 0; x0 < cols; x0 += stride {
			w := side
			if x0+w > cols {
				w = cols - x0
			}
			if w <= 0 {
				continue
			}
			tiles = append(tiles, Tile{X0: x0, Y0: y0, Rows: h, Cols: w})
			if x0+w >= cols {
				break
			}
		}
		if y0+h >= rows {
			break
		}
	}
	return tiles
}
