package grid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ErrFormat is returned when grid text or a problem name cannot be parsed.
var ErrFormat = errors.New("grid: malformed input")

// Read parses the plain text grid format:
//
//	6 3
//	0 1 0 0 1 0
//	0 1 1 1 1 0
//	0 1 0 0 1 0
//
// The header holds the column and row counts, followed by one value per tile
// (row y = 0 first). Any non-zero value marks a blocked tile.
func Read(r io.Reader) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func(what string) (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, fmt.Errorf("read %s: %w", what, err)
			}
			return 0, fmt.Errorf("%w: missing %s", ErrFormat, what)
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return 0, fmt.Errorf("%w: %s %q is not an integer", ErrFormat, what, sc.Text())
		}
		return v, nil
	}

	width, err := next("width")
	if err != nil {
		return nil, err
	}
	height, err := next("height")
	if err != nil {
		return nil, err
	}
	g, err := New(width, height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v, err := next(fmt.Sprintf("tile (%d,%d)", x, y))
			if err != nil {
				return nil, err
			}
			g.tiles[y*width+x] = v != 0
		}
	}
	return g, nil
}

// ReadFile reads a grid from a file in the text format accepted by Read.
func ReadFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grid file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Write emits g in the format accepted by Read.
func (g *Grid) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", g.width, g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if x > 0 {
				bw.WriteByte(' ')
			}
			if g.IsBlocked(x, y) {
				bw.WriteByte('1')
			} else {
				bw.WriteByte('0')
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// String renders the grid in the Read format.
func (g *Grid) String() string {
	var sb strings.Builder
	_ = g.Write(&sb)
	return sb.String()
}

var problemSeparator = regexp.MustCompile(`[-_]`)

// ProblemName names a start/goal pair as "sx-sy-ex-ey".
func ProblemName(start, goal Point) string {
	return fmt.Sprintf("%d-%d-%d-%d", start.X, start.Y, goal.X, goal.Y)
}

// ParseProblemName is the inverse of ProblemName. Underscores are accepted
// as separators too, and a trailing file extension is ignored.
func ParseProblemName(name string) (start, goal Point, err error) {
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		name = name[:dot]
	}
	parts := problemSeparator.Split(name, -1)
	if len(parts) != 4 {
		return Point{}, Point{}, fmt.Errorf("%w: invalid problem name %q", ErrFormat, name)
	}
	var v [4]int
	for i, p := range parts {
		if v[i], err = strconv.Atoi(p); err != nil {
			return Point{}, Point{}, fmt.Errorf("%w: invalid problem name %q", ErrFormat, name)
		}
	}
	return Point{X: v[0], Y: v[1]}, Point{X: v[2], Y: v[3]}, nil
}
