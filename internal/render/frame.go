// Package render turns simulation state into a backend-neutral draw list.
// Segments are grouped by quantised alpha so a backend can issue one
// stroke per bucket instead of one per segment.
package render

import (
	"math"

	"github.com/iburimskiy/constellation/internal/palette"
	"github.com/iburimskiy/constellation/internal/particle"
	"github.com/iburimskiy/constellation/internal/proximity"
)

// Segment is a straight line in surface coordinates.
type Segment struct {
	X0, Y0, X1, Y1 float32
}

// Dot is a filled disk.
type Dot struct {
	X, Y, R float32
	Class   palette.Class
	Bucket  int
}

// Style holds the alpha shaping applied while composing.
type Style struct {
	DotBaseAlpha   float64
	FocalLineAlpha float64
	FocalLineMax   float64
	LineWidth      float64
}

// Focus is the focal point the frame was composed against.
type Focus struct {
	X, Y   float64
	Active bool
}

// Frame is one composed frame. Backing slices are reused by Compose.
type Frame struct {
	Width, Height float64
	Palette       *palette.Palette
	LineWidth     float64

	Dots  []Dot
	Links [][]Segment // indexed by alpha bucket, primary accent
	Focal [][]Segment // indexed by alpha bucket, primary accent
	Focus Focus
}

// Segments counts link and focal segments.
func (f *Frame) Segments() (links, focal int) {
	for _, b := range f.Links {
		links += len(b)
	}
	for _, b := range f.Focal {
		focal += len(b)
	}
	return links, focal
}

// Reset empties the frame while keeping its buffers.
func (f *Frame) Reset(pal *palette.Palette) {
	f.Palette = pal
	f.Dots = f.Dots[:0]
	f.Links = resetBuckets(f.Links, pal.Buckets())
	f.Focal = resetBuckets(f.Focal, pal.Buckets())
	f.Focus = Focus{}
}

func resetBuckets(b [][]Segment, n int) [][]Segment {
	if len(b) != n {
		b = make([][]Segment, n)
	}
	for i := range b {
		b[i] = b[i][:0]
	}
	return b
}

// Input is everything Compose reads. Positions must already be final for
// the tick; links and proximity come from before the move.
type Input struct {
	Width, Height float64
	Particles     []particle.Particle
	Proximity     []float64
	Links         []proximity.Link
	Focus         Focus
	Palette       *palette.Palette
	Style         Style
	Opacity       float64 // global multiplier, 1 when fully faded in
}

// Compose fills f from in.
func Compose(f *Frame, in Input) {
	pal := in.Palette
	f.Reset(pal)
	f.Width, f.Height = in.Width, in.Height
	f.LineWidth = in.Style.LineWidth
	f.Focus = in.Focus
	op := clamp01(in.Opacity)

	ps := in.Particles
	for i := range ps {
		var prox float64
		if i < len(in.Proximity) {
			prox = in.Proximity[i]
		}
		a := in.Style.DotBaseAlpha + (1-in.Style.DotBaseAlpha)*prox
		b := pal.Bucket(a * op)
		if b == 0 {
			continue
		}
		f.Dots = append(f.Dots, Dot{
			X:      float32(ps[i].X),
			Y:      float32(ps[i].Y),
			R:      float32(ps[i].R),
			Class:  ps[i].Class,
			Bucket: b,
		})
	}

	for _, l := range in.Links {
		if l.A >= len(ps) || l.B >= len(ps) {
			continue
		}
		b := pal.Bucket(l.Strength * op)
		if b == 0 {
			continue
		}
		a, c := &ps[l.A], &ps[l.B]
		f.Links[b] = append(f.Links[b], Segment{float32(a.X), float32(a.Y), float32(c.X), float32(c.Y)})
	}

	if !in.Focus.Active {
		return
	}
	fx, fy := float32(in.Focus.X), float32(in.Focus.Y)
	for i, prox := range in.Proximity {
		if prox <= 0 || i >= len(ps) {
			continue
		}
		b := pal.Bucket(FocalAlpha(prox, in.Style) * op)
		if b == 0 {
			continue
		}
		f.Focal[b] = append(f.Focal[b], Segment{float32(ps[i].X), float32(ps[i].Y), fx, fy})
	}
}

// FocalAlpha is the particle-to-focus line opacity: proximity squared,
// capped.
func FocalAlpha(prox float64, st Style) float64 {
	return math.Min(st.FocalLineMax, st.FocalLineAlpha*prox*prox)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
