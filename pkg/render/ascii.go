package render

import (
	"math"
	"strings"
)

// Characters used by [RenderASCII].
const (
	asciiBlank = ' '
	asciiLink  = '.'
	asciiNode  = 'o'
	asciiFocus = '@'
	asciiPin   = '#'
)

// RenderASCII draws f on a cols x rows character canvas. The view box is
// stretched to fill the canvas; anything outside it is clipped. Labels are
// written to the right of their node.
func RenderASCII(f Frame, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	c := newCanvas(cols, rows, f.ViewBox)

	for _, l := range f.Links() {
		c.line(l.X1, l.Y1, l.X2, l.Y2, asciiLink)
	}
	for _, n := range f.Nodes() {
		ch := asciiNode
		switch {
		case n.Focused:
			ch = asciiFocus
		case n.Pinned:
			ch = asciiPin
		}
		x, y, ok := c.project(n.CX, n.CY)
		if !ok {
			continue
		}
		c.set(x, y, ch)
		if n.Label != "" {
			c.text(x+1, y, n.Label)
		}
	}
	return c.String()
}

type canvas struct {
	cells      [][]rune
	cols, rows int
	vb         ViewBox
}

func newCanvas(cols, rows int, vb ViewBox) *canvas {
	cells := make([][]rune, rows)
	for i := range cells {
		cells[i] = []rune(strings.Repeat(string(asciiBlank), cols))
	}
	return &canvas{cells: cells, cols: cols, rows: rows, vb: vb}
}

// project maps graph coordinates to a cell.
func (c *canvas) project(x, y float64) (int, int, bool) {
	if c.vb.Width <= 0 || c.vb.Height <= 0 {
		return 0, 0, false
	}
	cx := int(math.Round((x - c.vb.X) / c.vb.Width * float64(c.cols-1)))
	cy := int(math.Round((y - c.vb.Y) / c.vb.Height * float64(c.rows-1)))
	return cx, cy, cx >= 0 && cx < c.cols && cy >= 0 && cy < c.rows
}

func (c *canvas) set(x, y int, ch rune) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.rows {
		c.cells[y][x] = ch
	}
}

func (c *canvas) text(x, y int, s string) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r)
	}
}

// line draws a segment with Bresenham's algorithm. Endpoints off the canvas
// are still walked so the visible part of the segment is drawn.
func (c *canvas) line(x1, y1, x2, y2 float64, ch rune) {
	if c.vb.Width <= 0 || c.vb.Height <= 0 {
		return
	}
	sx := func(x float64) int { return int(math.Round((x - c.vb.X) / c.vb.Width * float64(c.cols-1))) }
	sy := func(y float64) int { return int(math.Round((y - c.vb.Y) / c.vb.Height * float64(c.rows-1))) }
	ax, ay, bx, by := sx(x1), sy(y1), sx(x2), sy(y2)

	dx, dy := abs(bx-ax), -abs(by-ay)
	stepX, stepY := 1, 1
	if ax > bx {
		stepX = -1
	}
	if ay > by {
		stepY = -1
	}
	// Cap the walk so a far off-canvas endpoint cannot stall rendering.
	limit := 4 * (c.cols + c.rows)
	err := dx + dy
	for i := 0; i < limit; i++ {
		c.set(ax, ay, ch)
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			ax += stepX
		}
		if e2 <= dx {
			err += dx
			ay += stepY
		}
	}
}

func (c *canvas) String() string {
	lines := make([]string, c.rows)
	for i, row := range c.cells {
		lines[i] = strings.TrimRight(string(row), string(asciiBlank))
	}
	return strings.Join(lines, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
