// Package lifecycle drives a scene from a host frame scheduler: pacing,
// resize measurement with a bounded retry, visibility pause and teardown.
package lifecycle

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/iburimskiy/constellation/internal/config"
	"github.com/iburimskiy/constellation/internal/palette"
	"github.com/iburimskiy/constellation/internal/render"
	"github.com/iburimskiy/constellation/internal/scene"
)

// State is the controller state machine.
type State int

const (
	Uninitialized State = iota
	Running
	Paused
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Disposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Surface measures the drawing area in surface units. Zero means not laid
// out yet.
type Surface interface {
	Size() (width, height int)
}

// Painter draws a composed frame.
type Painter interface {
	Paint(f *render.Frame) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger replaces the default stderr logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller owns the scene and everything that happens between frames.
// All methods must be called from the goroutine that fires the scheduler.
type Controller struct {
	cfg     config.Config
	scene   *scene.Context
	surface Surface
	painter Painter
	sched   Scheduler
	pacer   *Pacer
	log     *log.Logger

	state   State
	started bool
	visible bool
	inert   bool

	loop    FrameID
	retry   FrameID
	retries int
	now     time.Duration

	resizePending bool
	resizeDue     time.Duration

	fade    *gween.Tween
	opacity float64
	frame   render.Frame
	ticks   uint64
}

// New wires a controller. surface or painter may be nil, in which case
// Start leaves the effect inert.
func New(sc *scene.Context, surface Surface, painter Painter, sched Scheduler, opts ...Option) *Controller {
	cfg := sc.Config()
	c := &Controller{
		cfg:     cfg,
		scene:   sc,
		surface: surface,
		painter: painter,
		sched:   sched,
		pacer:   NewPacer(cfg.FrameInterval(), cfg.StallFactor),
		log:     log.New(os.Stderr, "constellation: ", log.LstdFlags),
		visible: true,
		opacity: 1,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start measures the surface and begins requesting frames. Calling it more
// than once, or after Dispose, does nothing.
func (c *Controller) Start() {
	if c.started || c.state == Disposed {
		return
	}
	c.started = true
	if c.surface == nil || c.painter == nil || c.sched == nil {
		c.inert = true
		c.log.Printf("no drawing surface, effect disabled")
		return
	}
	c.loop = c.sched.RequestFrame(c.tick)
	c.measure()
}

// State is the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Inert reports that the effect gave up: no surface, or the surface never
// reported a usable size within the retry budget.
func (c *Controller) Inert() bool { return c.inert }

// Scene exposes the simulation context.
func (c *Controller) Scene() *scene.Context { return c.scene }

// Ticks is the number of processed (not skipped) ticks.
func (c *Controller) Ticks() uint64 { return c.ticks }

// Frame is the most recently composed frame.
func (c *Controller) Frame() *render.Frame { return &c.frame }

// OnResize schedules a re-measure once resize events settle.
func (c *Controller) OnResize() {
	if c.state == Disposed || !c.started || c.surface == nil {
		return
	}
	c.resizePending = true
	c.resizeDue = c.now + c.cfg.ResizeDebounce
}

// SetVisible pauses or resumes ticking. The frame loop keeps running while
// paused so resuming needs no re-initialisation.
func (c *Controller) SetVisible(visible bool) {
	c.visible = visible
	switch {
	case c.state == Running && !visible:
		c.state = Paused
	case c.state == Paused && visible:
		c.state = Running
	}
}

// PointerMove forwards a host pointer position to the focal tracker.
func (c *Controller) PointerMove(x, y float64) {
	if c.state == Disposed {
		return
	}
	c.scene.Tracker().PointerMove(x, y)
}

// PointerLeave clears the pointer.
func (c *Controller) PointerLeave() {
	if c.state == Disposed {
		return
	}
	c.scene.Tracker().PointerLeave()
}

// SetAccent recolours one accent.
func (c *Controller) SetAccent(cl palette.Class, rgb palette.RGB) {
	c.scene.SetAccent(cl, rgb)
}

// Dispose cancels every pending frame request. It is safe to call at any
// time and any number of times.
func (c *Controller) Dispose() {
	if c.state == Disposed {
		return
	}
	if c.sched != nil {
		if c.loop != 0 {
			c.sched.CancelFrame(c.loop)
		}
		if c.retry != 0 {
			c.sched.CancelFrame(c.retry)
		}
	}
	c.loop, c.retry = 0, 0
	c.resizePending = false
	c.state = Disposed
}

func (c *Controller) tick(now time.Duration) {
	if c.state == Disposed {
		return
	}
	c.now = now
	c.loop = c.sched.RequestFrame(c.tick)

	// a settled resize waits while hidden so nothing moves until resume
	if c.resizePending && now >= c.resizeDue && c.state != Paused {
		c.resizePending = false
		c.retries = 0
		if c.sizeChanged() {
			c.measure()
		}
	}
	if c.state != Running {
		return
	}
	if !c.pacer.Ready(now) {
		return
	}
	c.process()
}

// process runs one tick to completion. A fault in one tick is logged and
// the loop carries on with the next frame.
func (c *Controller) process() {
	defer func() {
		if r := recover(); r != nil {
			c.log.Printf("tick %d: recovered: %v", c.ticks, r)
		}
	}()
	c.ticks++
	c.scene.Advance()
	if c.fade != nil {
		v, done := c.fade.Update(float32(c.pacer.Interval().Seconds()))
		c.opacity = float64(v)
		if done {
			c.fade = nil
			c.opacity = 1
		}
	}
	c.scene.Compose(&c.frame, c.opacity)
	if err := c.painter.Paint(&c.frame); err != nil {
		c.log.Printf("tick %d: paint: %v", c.ticks, err)
	}
}

// sizeChanged reports whether a settled resize needs a re-measure: the
// surface differs from what the scene was built for, or nothing usable was
// measured yet.
func (c *Controller) sizeChanged() bool {
	if c.inert || c.state == Uninitialized {
		return true
	}
	w, h := c.surface.Size()
	sw, sh := c.scene.Size()
	return float64(w) != sw || float64(h) != sh
}

// measure reads the surface size. A zero size is retried on following
// frames until the retry budget runs out.
func (c *Controller) measure() {
	if c.retry != 0 {
		c.sched.CancelFrame(c.retry)
		c.retry = 0
	}
	w, h := c.surface.Size()
	if w <= 0 || h <= 0 {
		if c.retries >= c.cfg.ResizeRetries {
			c.inert = true
			c.retries = 0
			c.log.Printf("surface still %dx%d after %d retries, giving up until the next resize", w, h, c.cfg.ResizeRetries)
			return
		}
		c.retries++
		c.retry = c.sched.RequestFrame(func(now time.Duration) {
			c.retry = 0
			if c.state == Disposed {
				return
			}
			c.now = now
			c.measure()
		})
		return
	}

	c.retries = 0
	c.inert = false
	c.scene.Resize(float64(w), float64(h))
	c.pacer.Reset()
	if c.cfg.FadeIn > 0 {
		c.fade = gween.New(0, 1, float32(c.cfg.FadeIn.Seconds()), ease.OutCubic)
		c.opacity = 0
	}
	if c.state == Uninitialized {
		c.state = Running
		if !c.visible {
			c.state = Paused
		}
	}
}
