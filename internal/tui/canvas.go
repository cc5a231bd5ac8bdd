package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/floatwin/internal/geometry"
)

// wide marks the cell covered by the right half of a double-width rune.
const wide rune = -1

// canvas is a fixed grid of terminal cells painted back to front.
type canvas struct {
	w, h  int
	cells [][]rune
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{w: w, h: h, cells: make([][]rune, h)}
	for y := range c.cells {
		row := make([]rune, w)
		for x := range row {
			row[x] = ' '
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = r
}

// text writes s starting at (x, y) without crossing column limit.
func (c *canvas) text(x, y int, s string, limit int) {
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > limit {
			return
		}
		c.set(x, y, r)
		if rw == 2 {
			c.set(x+1, y, wide)
		}
		x += rw
	}
}

func (c *canvas) fill(r cellRect, ch rune) {
	for y := r.y0; y <= r.y1; y++ {
		for x := r.x0; x <= r.x1; x++ {
			c.set(x, y, ch)
		}
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, r := range row {
			if r != wide {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

type borderSet struct {
	tl, tr, bl, br, h, v rune
}

var (
	plainBorder    = borderSet{'┌', '┐', '└', '┘', '─', '│'}
	selectedBorder = borderSet{'╔', '╗', '╚', '╝', '═', '║'}
	inlineBorder   = borderSet{'+', '+', '+', '+', '-', '¦'}
)

// box paints a framed window with its title on the top edge. A one-row box
// is drawn as a bare titlebar.
func (c *canvas) box(r cellRect, title string, b borderSet) {
	c.fill(r, ' ')
	for x := r.x0 + 1; x < r.x1; x++ {
		c.set(x, r.y0, b.h)
		if r.y1 > r.y0 {
			c.set(x, r.y1, b.h)
		}
	}
	if r.y1 > r.y0 {
		for y := r.y0 + 1; y < r.y1; y++ {
			c.set(r.x0, y, b.v)
			c.set(r.x1, y, b.v)
		}
		c.set(r.x0, r.y1, b.bl)
		c.set(r.x1, r.y1, b.br)
	}
	c.set(r.x0, r.y0, b.tl)
	c.set(r.x1, r.y0, b.tr)

	room := r.x1 - r.x0 - 3
	if room <= 0 || title == "" {
		return
	}
	label := " " + runewidth.Truncate(title, room, "…") + " "
	c.text(r.x0+1, r.y0, label, r.x1)
}

// cellRect is an inclusive cell rectangle.
type cellRect struct {
	x0, y0, x1, y1 int
}

// toCells maps a pixel rectangle onto the cell grid. Every window covers at
// least two columns and one row.
func toCells(r geometry.Rect, cw, ch int) cellRect {
	c := cellRect{
		x0: floorDiv(r.Left, cw),
		y0: floorDiv(r.Top, ch),
		x1: ceilDiv(r.Right, cw) - 1,
		y1: ceilDiv(r.Bottom, ch) - 1,
	}
	c.x1 = max(c.x1, c.x0+1)
	c.y1 = max(c.y1, c.y0)
	return c
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
