// Package terminal draws the constellation into a tcell screen. Every cell
// is a 2x4 braille dot grid, so the surface is measured in dots.
package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/constellation/internal/focal"
	"github.com/iburimskiy/constellation/internal/palette"
	"github.com/iburimskiy/constellation/internal/render"
)

const (
	dotsX       = 2
	dotsY       = 4
	brailleBase = 0x2800
)

// brailleBits maps a dot (column, row) inside a cell to its bit.
var brailleBits = [dotsX][dotsY]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

type cell struct {
	bits   uint8
	bucket int
	class  palette.Class
}

// Backend is both the measured surface and the painter for a tcell screen.
type Backend struct {
	screen tcell.Screen
	bg     palette.RGB
	bgCol  tcell.Color

	cols, rows int
	cells      []cell

	pal    *palette.Palette
	colors [2][]tcell.Color
}

// New wraps an initialised screen.
func New(screen tcell.Screen, background palette.RGB) *Backend {
	b := &Backend{
		screen: screen,
		bg:     background,
		bgCol:  tcell.NewRGBColor(int32(background.R), int32(background.G), int32(background.B)),
	}
	b.resize()
	return b
}

// Size is the surface in braille dots.
func (b *Backend) Size() (int, int) {
	cols, rows := b.screen.Size()
	return cols * dotsX, rows * dotsY
}

// Viewport maps cell coordinates of mouse events to the centre of the cell
// in dot space.
func (b *Backend) Viewport() focal.Viewport {
	return focal.Viewport{OffsetX: -0.5, OffsetY: -0.5, ScaleX: dotsX, ScaleY: dotsY}
}

func (b *Backend) resize() {
	b.cols, b.rows = b.screen.Size()
	n := b.cols * b.rows
	if cap(b.cells) < n {
		b.cells = make([]cell, n)
	}
	b.cells = b.cells[:n]
}

// Paint rasterises f and shows it.
func (b *Backend) Paint(f *render.Frame) error {
	if cols, rows := b.screen.Size(); cols != b.cols || rows != b.rows {
		b.resize()
	}
	if f.Palette != b.pal {
		b.buildColors(f.Palette)
	}
	clear(b.cells)

	for _, bucket := range [][][]render.Segment{f.Links, f.Focal} {
		for i, segs := range bucket {
			for _, s := range segs {
				b.line(s, i, palette.Primary)
			}
		}
	}
	for _, d := range f.Dots {
		b.plot(int(d.X), int(d.Y), d.Bucket, d.Class)
	}

	blank := tcell.StyleDefault.Background(b.bgCol)
	for y := 0; y < b.rows; y++ {
		for x := 0; x < b.cols; x++ {
			c := b.cells[y*b.cols+x]
			if c.bits == 0 {
				b.screen.SetContent(x, y, ' ', nil, blank)
				continue
			}
			st := blank.Foreground(b.colors[c.class][c.bucket])
			b.screen.SetContent(x, y, rune(brailleBase+int(c.bits)), nil, st)
		}
	}
	b.screen.Show()
	return nil
}

// buildColors pre-blends each accent over the background at every bucket.
func (b *Backend) buildColors(pal *palette.Palette) {
	b.pal = pal
	bg := b.bg.Colorful()
	for cl := range b.colors {
		accent := pal.Base(palette.Class(cl)).Colorful()
		row := make([]tcell.Color, pal.Buckets())
		for i := range row {
			row[i] = toTcell(bg.BlendRgb(accent, pal.Alpha(i)))
		}
		b.colors[cl] = row
	}
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, bl := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(bl))
}

// plot sets one dot; the strongest bucket wins the cell colour.
func (b *Backend) plot(x, y, bucket int, cl palette.Class) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/dotsX, y/dotsY
	if cx >= b.cols || cy >= b.rows {
		return
	}
	c := &b.cells[cy*b.cols+cx]
	c.bits |= 1 << brailleBits[x%dotsX][y%dotsY]
	if bucket >= c.bucket {
		c.bucket = bucket
		c.class = cl
	}
}

// line walks a segment with Bresenham's algorithm.
func (b *Backend) line(s render.Segment, bucket int, cl palette.Class) {
	x0, y0 := int(s.X0+0.5), int(s.Y0+0.5)
	x1, y1 := int(s.X1+0.5), int(s.Y1+0.5)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		b.plot(x0, y0, bucket, cl)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
