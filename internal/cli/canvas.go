package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// rgb is a 24-bit terminal color.
type rgb struct{ r, g, b uint8 }

func (c rgb) scale(f float64) rgb {
	ch := func(v uint8) uint8 {
		return uint8(math.Round(min(max(float64(v)*f, 0), 255)))
	}
	return rgb{ch(c.r), ch(c.g), ch(c.b)}
}

func (c rgb) color() lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b))
}

// cell is one terminal cell of a canvas. A zero rune marks the right half
// of a wide rune to its left.
type cell struct {
	ch     rune
	fg, bg rgb
	hasFg  bool
	hasBg  bool
	bold   bool
}

// canvas is a fixed-size grid of cells that later paints cover earlier
// ones. Everything outside the bounds is clipped.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([]cell, c.w*c.h)
	for i := range c.cells {
		c.cells[i].ch = ' '
	}
	return c
}

func (c *canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.cells[y*c.w+x]
}

// set replaces the cell at (x, y).
func (c *canvas) set(x, y int, v cell) {
	if p := c.at(x, y); p != nil {
		*p = v
	}
}

// text writes s starting at (x, y), clipped to width columns with a
// trailing ellipsis. style supplies colors and weight for every cell.
func (c *canvas) text(x, y, width int, s string, style cell) {
	if width <= 0 {
		return
	}
	if lipgloss.Width(s) > width {
		s = truncate(s, width)
	}
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if rw == 0 {
			continue
		}
		v := style
		v.ch = r
		if p := c.at(x, y); p != nil {
			if !v.hasBg {
				v.bg, v.hasBg = p.bg, p.hasBg
			}
			*p = v
		}
		for i := 1; i < rw; i++ {
			if p := c.at(x+i, y); p != nil {
				p.ch = 0
			}
		}
		x += rw
	}
}

// truncate shortens s to at most width columns, ending in an ellipsis.
func truncate(s string, width int) string {
	if width <= 1 {
		return "…"
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > width-1 {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	b.WriteString("…")
	return b.String()
}

// dim darkens every cell, as seen through a translucent overlay.
func (c *canvas) dim(f float64, fallback rgb) {
	for i := range c.cells {
		p := &c.cells[i]
		if p.hasFg {
			p.fg = p.fg.scale(f)
		} else {
			p.fg, p.hasFg = fallback, true
		}
		if p.hasBg {
			p.bg = p.bg.scale(f)
		}
	}
}

// String renders the canvas, merging runs of equally styled cells.
func (c *canvas) String() string {
	var out strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		row := c.cells[y*c.w : (y+1)*c.w]
		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && sameStyle(row[start], row[end]) {
				end++
			}
			var run strings.Builder
			for _, v := range row[start:end] {
				if v.ch != 0 {
					run.WriteRune(v.ch)
				}
			}
			out.WriteString(row[start].style().Render(run.String()))
			start = end
		}
	}
	return out.String()
}

func sameStyle(a, b cell) bool {
	return a.hasFg == b.hasFg && a.hasBg == b.hasBg && a.bold == b.bold &&
		(!a.hasFg || a.fg == b.fg) && (!a.hasBg || a.bg == b.bg)
}

func (v cell) style() lipgloss.Style {
	s := lipgloss.NewStyle()
	if v.hasFg {
		s = s.Foreground(v.fg.color())
	}
	if v.hasBg {
		s = s.Background(v.bg.color())
	}
	if v.bold {
		s = s.Bold(true)
	}
	return s
}
