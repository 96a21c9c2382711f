// Package sim advances particle motion by one tick.
package sim

import (
	"math"

	"github.com/iburimskiy/constellation/internal/particle"
)

// Params are the resolved motion constants for a tick.
type Params struct {
	JitterRate       float64 // phase advance per tick
	Jitter           float64 // jitter magnitude
	JitterScale      float64
	Attraction       float64
	AttractionRadius float64
	MaxSpeed         float64
}

// Focus is the attraction anchor for this tick.
type Focus struct {
	X, Y   float64
	Active bool
}

// Step integrates every particle once on a width x height surface.
func Step(ps []particle.Particle, p Params, f Focus, width, height float64) {
	for i := range ps {
		advance(&ps[i], p, f)
		reflect(&ps[i], width, height)
	}
}

func advance(d *particle.Particle, p Params, f Focus) {
	d.N += p.JitterRate
	d.VX += math.Cos(d.N) * p.Jitter * p.JitterScale
	d.VY += math.Sin(d.N) * p.Jitter * p.JitterScale

	if f.Active && p.AttractionRadius > 0 {
		dx := f.X - d.X
		dy := f.Y - d.Y
		dist := math.Hypot(dx, dy)
		if dist < p.AttractionRadius {
			k := (1 - dist/p.AttractionRadius) * p.Attraction
			d.VX += dx * k
			d.VY += dy * k
		}
	}

	ClampSpeed(d, p.MaxSpeed)

	d.X += d.VX
	d.Y += d.VY
}

// ClampSpeed rescales velocity so its magnitude is at most max.
func ClampSpeed(d *particle.Particle, max float64) {
	sp := math.Hypot(d.VX, d.VY)
	if sp > max && sp > 0 {
		k := max / sp
		d.VX *= k
		d.VY *= k
	}
}

// reflect clamps to the surface and points the crossed velocity component
// back inside.
func reflect(d *particle.Particle, width, height float64) {
	if d.X < 0 {
		d.X = 0
		d.VX = math.Abs(d.VX)
	} else if d.X > width {
		d.X = width
		d.VX = -math.Abs(d.VX)
	}
	if d.Y < 0 {
		d.Y = 0
		d.VY = math.Abs(d.VY)
	} else if d.Y > height {
		d.Y = height
		d.VY = -math.Abs(d.VY)
	}
}
