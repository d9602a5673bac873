package grid

// MaxRanges answers "how large is the empty square at this vertex" in O(1)
// after an O(W*H) precomputation. Entries are stored per diagonal: vertex
// (x, y) lives on diagonal x-y+H at position min(x, y).
type MaxRanges struct {
	height int
	rows   [][]int
}

// ComputeMaxDownLeftRanges builds the square-size index. For every tile it
// records min(leftRange, downRange), where leftRange (downRange) counts the
// open tiles to its left (below it); blocked tiles and the padding row and
// column hold -1.
func (g *Grid) ComputeMaxDownLeftRanges() *MaxRanges {
	w, h := g.width, g.height
	down := make([][]int, h+1)
	left := make([][]int, h+1)
	for y := range down {
		down[y] = make([]int, w+1)
		left[y] = make([]int, w+1)
	}

	for y := 0; y < h; y++ {
		left[y][0] = 0
		if g.IsBlocked(0, y) {
			left[y][0] = -1
		}
		for x := 1; x < w; x++ {
			if g.IsBlocked(x, y) {
				left[y][x] = -1
			} else {
				left[y][x] = left[y][x-1] + 1
			}
		}
	}
	for x := 0; x < w; x++ {
		down[0][x] = 0
		if g.IsBlocked(x, 0) {
			down[0][x] = -1
		}
		for y := 1; y < h; y++ {
			if g.IsBlocked(x, y) {
				down[y][x] = -1
			} else {
				down[y][x] = down[y-1][x] + 1
			}
		}
	}
	for x := 0; x <= w; x++ {
		down[h][x] = -1
		left[h][x] = -1
	}
	for y := 0; y < h; y++ {
		down[y][w] = -1
		left[y][w] = -1
	}

	maxSize := min(w, h) + 1
	size := w + h + 1
	rows := make([][]int, size)
	for i := range rows {
		n := min(maxSize, i+1, size-i)
		x := max(0, i-h)
		y := x - i + h
		row := make([]int, n)
		for k := range row {
			row[k] = min(down[y][x], left[y][x])
			x++
			y++
		}
		rows[i] = row
	}
	return &MaxRanges{height: h, rows: rows}
}

// Diagonal returns the (i, j) storage coordinates of vertex (x, y).
func (r *MaxRanges) Diagonal(x, y int) (int, int) {
	return x - y + r.height, min(x, y)
}

// UpperBound is the square-size bound obtained from the tile k steps up and
// to the right of the vertex stored at (i, j); negative k walks down and to
// the left. Probes that leave the grid behave like blocked tiles.
func (r *MaxRanges) UpperBound(i, j, k int) int {
	if i < 0 || i >= len(r.rows) || j+k < 0 || j+k >= len(r.rows[i]) {
		return -1 - k
	}
	return r.rows[i][j+k] - k
}

// MaxSquareAt is UpperBound addressed by vertex coordinates.
func (r *MaxRanges) MaxSquareAt(x, y, k int) int {
	i, j := r.Diagonal(x, y)
	return r.UpperBound(i, j, k)
}
