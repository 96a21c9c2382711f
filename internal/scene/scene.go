// Package scene holds the explicit simulation context: the particle set,
// the focal tracker and the per-tick proximity buffers, with the phases of a
// tick as methods.
package scene

import (
	"math/rand/v2"

	"github.com/iburimskiy/constellation/internal/config"
	"github.com/iburimskiy/constellation/internal/focal"
	"github.com/iburimskiy/constellation/internal/palette"
	"github.com/iburimskiy/constellation/internal/particle"
	"github.com/iburimskiy/constellation/internal/proximity"
	"github.com/iburimskiy/constellation/internal/render"
	"github.com/iburimskiy/constellation/internal/sim"
)

// LevelSource reports a loudness in [0, 1] used to pulse the jitter.
type LevelSource interface {
	Level() float64
}

// Context is one independent constellation.
type Context struct {
	cfg     config.Config
	set     *particle.Set
	tracker *focal.Tracker
	search  proximity.Searcher
	pal     *palette.Palette
	pulse   LevelSource

	width, height float64

	prox  []float64
	links []proximity.Link
	focus render.Focus
}

// New builds a context. rng may be nil for a time-seeded source.
func New(cfg config.Config, rng *rand.Rand) *Context {
	var search proximity.Searcher = &proximity.Grid{}
	if cfg.Search == config.SearchPairwise {
		search = proximity.Pairwise{}
	}
	return &Context{
		cfg: cfg,
		set: particle.NewSet(particle.Params{
			Density:       cfg.Density,
			MinCount:      cfg.MinCount,
			MaxDots:       cfg.MaxDots,
			Speed:         cfg.Speed,
			MinR:          cfg.DotMinR,
			MaxR:          cfg.DotMaxR,
			SecondaryBias: cfg.SecondaryBias,
		}, rng),
		tracker: focal.New(cfg),
		search:  search,
		pal: palette.New(
			palette.Resolve(cfg.Accent, config.DefaultAccent),
			palette.Resolve(cfg.Accent2, config.DefaultAccent2),
			cfg.AlphaBuckets,
		),
	}
}

// Config is the startup configuration.
func (c *Context) Config() config.Config { return c.cfg }

// Tracker exposes the focal tracker for pointer callbacks.
func (c *Context) Tracker() *focal.Tracker { return c.tracker }

// Palette is the current accent palette.
func (c *Context) Palette() *palette.Palette { return c.pal }

// SetAccent recolours one accent without touching the particles.
func (c *Context) SetAccent(cl palette.Class, rgb palette.RGB) {
	c.pal = c.pal.With(cl, rgb)
}

// SetPulse attaches a loudness source; nil detaches it.
func (c *Context) SetPulse(src LevelSource) { c.pulse = src }

// Resize regenerates every particle for the new surface size.
func (c *Context) Resize(width, height float64) {
	c.width, c.height = width, height
	c.set.Regenerate(width, height)
	c.tracker.Reset()
	c.links = c.links[:0]
	c.prox = c.prox[:0]
}

// Size is the surface size of the last Resize.
func (c *Context) Size() (float64, float64) { return c.width, c.height }

// Particles is the live particle slice.
func (c *Context) Particles() []particle.Particle { return c.set.Particles() }

// Proximity is the focal proximity computed by the last Advance.
func (c *Context) Proximity() []float64 { return c.prox }

// Links is the link set computed by the last Advance.
func (c *Context) Links() []proximity.Link { return c.links }

// Advance runs the focal, proximity and motion phases of one tick.
// Proximity and links are computed from positions before any particle
// moves.
func (c *Context) Advance() {
	c.tracker.Update(c.width, c.height)
	fx, fy, active := c.tracker.Point()
	c.focus = render.Focus{X: fx, Y: fy, Active: active}

	ps := c.set.Particles()
	c.prox = proximity.Focal(ps, fx, fy, active, c.cfg.MouseRadius, c.prox)
	c.links = c.search.Links(ps, c.prox, c.proximityParams(), c.links)

	sim.Step(ps, c.motionParams(), sim.Focus{X: fx, Y: fy, Active: active}, c.width, c.height)
}

// Compose renders the finalised tick into f.
func (c *Context) Compose(f *render.Frame, opacity float64) {
	render.Compose(f, render.Input{
		Width:     c.width,
		Height:    c.height,
		Particles: c.set.Particles(),
		Proximity: c.prox,
		Links:     c.links,
		Focus:     c.focus,
		Palette:   c.pal,
		Style: render.Style{
			DotBaseAlpha:   c.cfg.DotBaseAlpha,
			FocalLineAlpha: c.cfg.FocalLineAlpha,
			FocalLineMax:   c.cfg.FocalLineMax,
			LineWidth:      c.cfg.LineWidth,
		},
		Opacity: opacity,
	})
}

func (c *Context) proximityParams() proximity.Params {
	return proximity.Params{
		LinkDistance: c.cfg.LinkDistance,
		MouseRadius:  c.cfg.MouseRadius,
		MaxLineAlpha: c.cfg.MaxLineAlpha,
	}
}

func (c *Context) motionParams() sim.Params {
	scale := c.cfg.JitterScale
	if c.pulse != nil {
		lvl := c.pulse.Level()
		if lvl > 0 {
			scale *= 1 + c.cfg.PulseGain*min(lvl, 1)
		}
	}
	return sim.Params{
		JitterRate:       c.cfg.JitterRate,
		Jitter:           c.cfg.Jitter,
		JitterScale:      scale,
		Attraction:       c.cfg.Attraction,
		AttractionRadius: c.cfg.AttractionRadius,
		MaxSpeed:         c.cfg.MaxSpeed,
	}
}
