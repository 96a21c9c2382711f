package particle

import (
	"math"
	"math/rand/v2"

	"github.com/iburimskiy/constellation/internal/palette"
)

// Particle is one point of the constellation. Positions are surface-local.
type Particle struct {
	X, Y   float64
	VX, VY float64
	R      float64
	Class  palette.Class
	N      float64 // jitter phase, only ever increases
}

// Params is the subset of configuration the set needs to regenerate.
type Params struct {
	Density       float64
	MinCount      int
	MaxDots       int
	Speed         float64
	MinR, MaxR    float64
	SecondaryBias float64
}

// Count is clamp(area/density, min, max).
func Count(p Params, width, height float64) int {
	if p.Density <= 0 {
		return p.MinCount
	}
	n := int(math.Floor(width * height / p.Density))
	if n < p.MinCount {
		n = p.MinCount
	}
	if n > p.MaxDots {
		n = p.MaxDots
	}
	return n
}

// Set owns the particle array. It is replaced wholesale on regeneration.
type Set struct {
	params    Params
	rng       *rand.Rand
	particles []Particle
}

// NewSet creates an empty set drawing randomness from rng.
func NewSet(p Params, rng *rand.Rand) *Set {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Set{params: p, rng: rng}
}

// Regenerate replaces every particle with a fresh sample for a surface of
// the given size.
func (s *Set) Regenerate(width, height float64) {
	n := Count(s.params, width, height)
	ps := make([]Particle, n)
	for i := range ps {
		ps[i] = s.sample(width, height)
	}
	s.particles = ps
}

func (s *Set) sample(width, height float64) Particle {
	p := s.params
	cl := palette.Primary
	if s.rng.Float64() < p.SecondaryBias {
		cl = palette.Secondary
	}
	return Particle{
		X:     s.rng.Float64() * width,
		Y:     s.rng.Float64() * height,
		VX:    (s.rng.Float64() - 0.5) * p.Speed,
		VY:    (s.rng.Float64() - 0.5) * p.Speed,
		R:     p.MinR + s.rng.Float64()*(p.MaxR-p.MinR),
		Class: cl,
		N:     s.rng.Float64() * 2 * math.Pi,
	}
}

// Particles exposes the live slice. Callers may mutate elements but must
// not retain it across a Regenerate.
func (s *Set) Particles() []Particle { return s.particles }
