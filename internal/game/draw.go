package game

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/constellation/internal/palette"
	"github.com/iburimskiy/constellation/internal/render"
)

const (
	// Vertex indices are uint16.
	maxBatchVertices = 1<<16 - 1
	strokeChunk      = 1024
	// Upper bound on vertices a chunk of single-segment subpaths produces.
	chunkVertices = strokeChunk * 8
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)
	if g.frame != nil {
		g.drawFrame(screen, g.frame)
	}
	if g.debug {
		g.drawDebug(screen)
	}
}

func (g *Game) drawFrame(screen *ebiten.Image, f *render.Frame) {
	s := float32(g.scale)
	width := float32(f.LineWidth) * s
	for _, buckets := range [][][]render.Segment{f.Links, f.Focal} {
		for i, segs := range buckets {
			if len(segs) == 0 {
				continue
			}
			c := f.Palette.Color(palette.Primary, i)
			if g.batch {
				g.stroker.stroke(screen, segs, s, width, c)
				continue
			}
			for _, sg := range segs {
				vector.StrokeLine(screen, sg.X0*s, sg.Y0*s, sg.X1*s, sg.Y1*s, width, c, true)
			}
		}
	}
	g.stroker.flush(screen)

	for _, d := range f.Dots {
		vector.DrawFilledCircle(screen, d.X*s, d.Y*s, d.R*s, f.Palette.Color(d.Class, d.Bucket), true)
	}
}

func (g *Game) drawDebug(screen *ebiten.Image) {
	sc := g.ctrl.Scene()
	cfg := sc.Config()
	links, focal := 0, 0
	if g.frame != nil {
		links, focal = g.frame.Segments()
	}
	w, h := sc.Size()
	msg := fmt.Sprintf(
		"%s  profile %s  focal %s  pointer %v  search %s  batch %v\n"+
			"surface %.0fx%.0f @%.1fx  particles %d  links %d  focal %d\n"+
			"ticks %d  tps %.0f  fps %.0f  up %s",
		g.ctrl.State(), cfg.Profile, sc.Tracker().Mode(), sc.Tracker().PointerActive(), cfg.Search, g.batch,
		w, h, g.scale, len(sc.Particles()), links, focal,
		g.ctrl.Ticks(), ebiten.ActualTPS(), ebiten.ActualFPS(), formatDuration(time.Since(g.start)),
	)
	if g.player.Playing() {
		state := "playing"
		if g.player.Paused() {
			state = "paused"
		}
		msg += fmt.Sprintf("\nsoundtrack %s  level %.2f", state, g.player.Level())
	}
	if g.ctrl.Inert() {
		msg += "\ninert: no usable surface size"
	}
	if g.lastErr != nil {
		msg += "\nerror: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, msg, 12, 12)
}

// stroker accumulates line strokes into one triangle batch.
type stroker struct {
	vs    []ebiten.Vertex
	is    []uint16
	white *ebiten.Image
}

func (st *stroker) stroke(dst *ebiten.Image, segs []render.Segment, scale, width float32, c color.NRGBA) {
	op := &vector.StrokeOptions{Width: width}
	r, g, b, a := float32(c.R)/0xff, float32(c.G)/0xff, float32(c.B)/0xff, float32(c.A)/0xff
	for len(segs) > 0 {
		if len(st.vs)+chunkVertices > maxBatchVertices {
			st.flush(dst)
		}
		n := min(len(segs), strokeChunk)
		var path vector.Path
		for _, sg := range segs[:n] {
			path.MoveTo(sg.X0*scale, sg.Y0*scale)
			path.LineTo(sg.X1*scale, sg.Y1*scale)
		}
		segs = segs[n:]

		from := len(st.vs)
		st.vs, st.is = path.AppendVerticesAndIndicesForStroke(st.vs, st.is, op)
		for i := from; i < len(st.vs); i++ {
			v := &st.vs[i]
			v.SrcX, v.SrcY = 1, 1
			v.ColorR, v.ColorG, v.ColorB, v.ColorA = r, g, b, a
		}
	}
}

func (st *stroker) flush(dst *ebiten.Image) {
	if len(st.is) == 0 {
		return
	}
	if st.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		st.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	dst.DrawTriangles(st.vs, st.is, st.white, &ebiten.DrawTrianglesOptions{AntiAlias: true})
	st.vs, st.is = st.vs[:0], st.is[:0]
}
