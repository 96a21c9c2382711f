// Package focal tracks the point particles are drawn towards: the live
// pointer when there is one, otherwise a point drifting along a smooth
// periodic path.
package focal

import (
	"math"

	"github.com/iburimskiy/constellation/internal/config"
)

// Drift path shape. The two axes use unrelated rates so the path does not
// close into a simple loop.
const (
	driftRateX   = 0.0071
	driftRateY   = 0.0053
	driftPhaseY  = 1.3
	driftSpanX   = 0.38
	driftSpanY   = 0.34
	driftStepPer = 1.0 // phase timer advance per tick
)

// Viewport maps host coordinates into surface-local ones.
type Viewport struct {
	OffsetX, OffsetY float64
	ScaleX, ScaleY   float64
}

// Local translates a host position.
func (v Viewport) Local(x, y float64) (float64, float64) {
	sx, sy := v.ScaleX, v.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return (x-v.OffsetX)*sx, (y-v.OffsetY)*sy
}

// Tracker owns focal point state. It is mutated by pointer callbacks
// between ticks and by Update once per tick.
type Tracker struct {
	mode      config.FocalMode
	idleDrift bool
	damping   float64
	view      Viewport

	pointerX, pointerY float64
	pointerActive      bool

	driftX, driftY   float64
	targetX, targetY float64
	phase            float64
	seeded           bool
}

// New creates a tracker for the configured mode.
func New(cfg config.Config) *Tracker {
	return &Tracker{
		mode:      cfg.Mode,
		idleDrift: cfg.DriftWhenIdle,
		damping:   cfg.DriftDamping,
	}
}

// SetViewport changes how pointer coordinates are translated.
func (t *Tracker) SetViewport(v Viewport) { t.view = v }

// Mode is the startup-selected focal mode.
func (t *Tracker) Mode() config.FocalMode { return t.mode }

// PointerMove records a pointer position in host coordinates. It is
// ignored in autonomous mode.
func (t *Tracker) PointerMove(x, y float64) {
	if t.mode != config.FocalPointer {
		return
	}
	t.pointerX, t.pointerY = t.view.Local(x, y)
	t.pointerActive = true
}

// PointerLeave clears the pointer. Idle drift picks up from where the
// pointer left so the focal point never jumps.
func (t *Tracker) PointerLeave() {
	if t.pointerActive {
		t.driftX, t.driftY = t.pointerX, t.pointerY
		t.seeded = true
	}
	t.pointerActive = false
}

// PointerActive reports whether a live pointer is over the surface.
func (t *Tracker) PointerActive() bool { return t.pointerActive }

// Update advances the drift path for a surface of the given size. The drift
// point moves a fixed fraction of the way to its target every call.
func (t *Tracker) Update(width, height float64) {
	if !t.drifting() {
		return
	}
	if !t.seeded {
		t.driftX, t.driftY = width/2, height/2
		t.seeded = true
	}
	t.phase += driftStepPer
	t.targetX = width * (0.5 + driftSpanX*math.Sin(t.phase*driftRateX))
	t.targetY = height * (0.5 + driftSpanY*math.Sin(t.phase*driftRateY+driftPhaseY))
	t.driftX += (t.targetX - t.driftX) * t.damping
	t.driftY += (t.targetY - t.driftY) * t.damping
}

// Reset recentres the drift on the next Update, used after the surface is
// regenerated at a new size.
func (t *Tracker) Reset() { t.seeded = false }

func (t *Tracker) drifting() bool {
	switch t.mode {
	case config.FocalAutonomous:
		return true
	case config.FocalPointer:
		return t.idleDrift && !t.pointerActive
	}
	return false
}

// Point returns the authoritative focal point for this tick. ok is false
// when there is no focal point at all.
func (t *Tracker) Point() (x, y float64, ok bool) {
	if t.mode == config.FocalPointer && t.pointerActive {
		return t.pointerX, t.pointerY, true
	}
	if t.drifting() && t.seeded {
		return t.driftX, t.driftY, true
	}
	return 0, 0, false
}

// Target is the current drift target, for diagnostics.
func (t *Tracker) Target() (x, y float64) { return t.targetX, t.targetY }
