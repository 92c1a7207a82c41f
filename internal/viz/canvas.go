package viz

import (
	"strings"
)

// dotBits maps a dot inside a 2x4 Braille cell to its bit in the pattern
// offset from U+2800. Rows run top to bottom, columns left to right.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Canvas is a grid of Braille cells. Pixel coordinates address the dots,
// so a canvas of cols x rows cells has (cols*2) x (rows*4) pixels.
type Canvas struct {
	cols, rows int
	cells      []uint8
}

func NewCanvas(cols, rows int) *Canvas {
	return &Canvas{cols: cols, rows: rows, cells: make([]uint8, cols*rows)}
}

// PixelSize is the canvas size in dots.
func (c *Canvas) PixelSize() (int, int) { return c.cols * 2, c.rows * 4 }

// cell returns the index of the cell holding (x, y) and the dot's bit, or
// ok false when the point is off the canvas.
func (c *Canvas) cell(x, y int) (idx int, bit uint8, ok bool) {
	if x < 0 || y < 0 || x >= c.cols*2 || y >= c.rows*4 {
		return 0, 0, false
	}
	return (y/4)*c.cols + x/2, dotBits[y%4][x%2], true
}

// Set turns on the dot at (x, y). Points off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if i, bit, ok := c.cell(x, y); ok {
		c.cells[i] |= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	i, bit, ok := c.cell(x, y)
	return ok && c.cells[i]&bit != 0
}

// Dot draws a filled square of side 2r+1 centered on (x, y).
func (c *Canvas) Dot(x, y, r int) {
	for py := y - r; py <= y+r; py++ {
		for px := x - r; px <= x+r; px++ {
			c.Set(px, py)
		}
	}
}

func (c *Canvas) Clear() {
	clear(c.cells)
}

// DrawLine plots the segment between two pixels with Bresenham's
// algorithm. Both endpoints are drawn.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, sx := span(x0, x1)
	dy, sy := span(y0, y1)
	dy = -dy
	e := dx + dy

	for x, y := x0, y0; ; {
		c.Set(x, y)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// span returns |b-a| and the unit step from a toward b.
func span(a, b int) (int, int) {
	if b < a {
		return a - b, -1
	}
	return b - a, 1
}

func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.rows * (c.cols*3 + 1))
	for r := 0; r < c.rows; r++ {
		for _, bits := range c.cells[r*c.cols : (r+1)*c.cols] {
			sb.WriteRune(rune(brailleBase + int(bits)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
