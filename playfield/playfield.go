// Package playfield implements the fixed-size, mutable byte grid that holds a
// program and its data.
//
// The grid has no separate code and data segments: a cell written by a put
// instruction may be executed as an opcode on a later pass.
package playfield

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/deepnoodle-ai/cefunge/errz"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 25

	// Empty is the value of every cell that the program source does not fill.
	Empty byte = ' '
)

// Playfield is a width x height grid of bytes stored in row-major order.
type Playfield struct {
	width  int
	height int
	cells  []byte
}

// New returns a playfield filled with spaces.
func New(width, height int) (*Playfield, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid playfield size %dx%d", width, height)
	}
	return &Playfield{
		width:  width,
		height: height,
		cells:  bytes.Repeat([]byte{Empty}, width*height),
	}, nil
}

// Width returns the number of columns.
func (p *Playfield) Width() int {
	return p.width
}

// Height returns the number of rows.
func (p *Playfield) Height() int {
	return p.height
}

// InBounds reports whether (x, y) addresses a cell.
func (p *Playfield) InBounds(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}

func (p *Playfield) index(x, y int) int {
	return x + y*p.width
}

// Read returns the cell at (x, y), or 0 when the coordinates are outside the
// grid.
func (p *Playfield) Read(x, y int) byte {
	if !p.InBounds(x, y) {
		return 0
	}
	return p.cells[p.index(x, y)]
}

// Write stores the low byte of value at (x, y). Writing outside the grid is
// an error wrapping errz.ErrOutOfRange; the grid is not wrapped for writes.
func (p *Playfield) Write(x, y int, value int64) error {
	if !p.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d", errz.ErrOutOfRange, x, y, p.width, p.height)
	}
	p.cells[p.index(x, y)] = byte(value)
	return nil
}

// Normalize wraps each axis onto the opposite edge. It is meant for IP
// movement, which only ever leaves the grid by one cell at a time.
func (p *Playfield) Normalize(x, y int) (int, int) {
	if x < 0 {
		x = p.width - 1
	} else if x >= p.width {
		x = 0
	}
	if y < 0 {
		y = p.height - 1
	} else if y >= p.height {
		y = 0
	}
	return x, y
}

// Row returns a copy of row y, or nil when y is outside the grid.
func (p *Playfield) Row(y int) []byte {
	if y < 0 || y >= p.height {
		return nil
	}
	row := make([]byte, p.width)
	copy(row, p.cells[p.index(0, y):p.index(0, y+1)])
	return row
}

// Clone returns an independent copy of the playfield.
func (p *Playfield) Clone() *Playfield {
	cells := make([]byte, len(p.cells))
	copy(cells, p.cells)
	return &Playfield{width: p.width, height: p.height, cells: cells}
}

// LoadString loads program text. See Load.
func (p *Playfield) LoadString(source string) error {
	return p.Load(strings.NewReader(source))
}

// Load replaces the grid contents with the rows read from r. Carriage
// returns and line feeds become spaces, short rows are padded with spaces
// and blank trailing lines are ignored. A row wider than the grid fails
// with errz.WidthOverflow and too many rows fail with errz.HeightOverflow.
// On any error the grid is left unchanged.
func (p *Playfield) Load(r io.Reader) error {
	rows, err := readRows(r)
	if err != nil {
		return &errz.LoadError{Status: errz.OpenFailure, Row: -1, Cause: err}
	}
	last := len(rows) - 1
	for last >= 0 && isBlank(rows[last]) {
		last--
	}
	rows = rows[:last+1]

	cells := bytes.Repeat([]byte{Empty}, p.width*p.height)
	for y, row := range rows {
		if y >= p.height {
			return &errz.LoadError{Status: errz.HeightOverflow, Row: y, Length: len(rows), Limit: p.height}
		}
		if len(row) > p.width {
			return &errz.LoadError{Status: errz.WidthOverflow, Row: y, Length: len(row), Limit: p.width}
		}
		copy(cells[p.index(0, y):], row)
	}
	p.cells = cells
	return nil
}

// readRows splits the input on line feeds. The terminator and one
// preceding carriage return are removed; any other CR or LF byte left in a
// row is turned into a space.
func readRows(r io.Reader) ([][]byte, error) {
	var rows [][]byte
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			line = bytes.TrimSuffix(line, []byte{'\n'})
			line = bytes.TrimSuffix(line, []byte{'\r'})
			for i, c := range line {
				if c == '\r' || c == '\n' {
					line[i] = ' '
				}
			}
			rows = append(rows, line)
		}
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func isBlank(row []byte) bool {
	return len(bytes.Trim(row, " ")) == 0
}

// Render writes the grid one row per line. When decoration is not zero the
// grid is framed above and below by a row of that byte.
func (p *Playfield) Render(w io.Writer, decoration byte) error {
	bw := bufio.NewWriter(w)
	frame := bytes.Repeat([]byte{decoration}, p.width)
	if decoration != 0 {
		bw.Write(frame)
		bw.WriteByte('\n')
	}
	for y := 0; y < p.height; y++ {
		bw.Write(p.cells[p.index(0, y):p.index(0, y+1)])
		bw.WriteByte('\n')
	}
	if decoration != 0 {
		bw.Write(frame)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// String returns the grid as text, one row per line.
func (p *Playfield) String() string {
	var b strings.Builder
	p.Render(&b, 0)
	return b.String()
}
