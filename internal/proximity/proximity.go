// Package proximity scores particles against the focal point and finds the
// particle pairs close enough to be linked.
package proximity

import (
	"math"

	"github.com/iburimskiy/constellation/internal/particle"
)

// Params are the distances and alpha the index works with.
type Params struct {
	LinkDistance float64
	MouseRadius  float64
	MaxLineAlpha float64
}

// Link is an unordered pair with A < B.
type Link struct {
	A, B     int
	Strength float64
}

// Focal fills out with each particle's closeness to (fx, fy): 1 at the
// point, falling linearly to 0 at radius. Every value is 0 when active is
// false. out is grown as needed and returned.
func Focal(ps []particle.Particle, fx, fy float64, active bool, radius float64, out []float64) []float64 {
	if cap(out) < len(ps) {
		out = make([]float64, len(ps))
	}
	out = out[:len(ps)]
	if !active || radius <= 0 {
		clear(out)
		return out
	}
	r2 := radius * radius
	for i := range ps {
		dx := ps[i].X - fx
		dy := ps[i].Y - fy
		d2 := dx*dx + dy*dy
		if d2 >= r2 {
			out[i] = 0
			continue
		}
		out[i] = 1 - math.Sqrt(d2)/radius
	}
	return out
}

// Strength is the link opacity for a pair d2 apart. The link range is
// exclusive and pairs with no focal proximity get nothing.
func Strength(d2 float64, p Params, pa, pb float64) float64 {
	l2 := p.LinkDistance * p.LinkDistance
	if d2 >= l2 {
		return 0
	}
	m := math.Max(pa, pb)
	if m <= 0 {
		return 0
	}
	return p.MaxLineAlpha * (1 - d2/l2) * m
}

// Searcher finds every linked pair. Implementations must agree exactly.
type Searcher interface {
	Links(ps []particle.Particle, prox []float64, p Params, out []Link) []Link
}

func appendLink(out []Link, ps []particle.Particle, prox []float64, p Params, i, j int) []Link {
	if prox[i] <= 0 && prox[j] <= 0 {
		return out
	}
	dx := ps[i].X - ps[j].X
	dy := ps[i].Y - ps[j].Y
	s := Strength(dx*dx+dy*dy, p, prox[i], prox[j])
	if s <= 0 {
		return out
	}
	if j < i {
		i, j = j, i
	}
	return append(out, Link{A: i, B: j, Strength: s})
}

// Pairwise compares every unordered pair directly.
type Pairwise struct{}

func (Pairwise) Links(ps []particle.Particle, prox []float64, p Params, out []Link) []Link {
	out = out[:0]
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			out = appendLink(out, ps, prox, p, i, j)
		}
	}
	return out
}
