// Package game runs the constellation in an ebiten window.
package game

import (
	"errors"
	"image/color"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/constellation/internal/config"
	"github.com/iburimskiy/constellation/internal/focal"
	"github.com/iburimskiy/constellation/internal/lifecycle"
	"github.com/iburimskiy/constellation/internal/palette"
	"github.com/iburimskiy/constellation/internal/playback"
	"github.com/iburimskiy/constellation/internal/render"
	"github.com/iburimskiy/constellation/internal/scene"
)

// Options configures a Game.
type Options struct {
	Background palette.RGB
	Batch      bool // one triangle batch per alpha bucket instead of a stroke per segment
	Debug      bool
	Still      bool // reduced motion: never start the controller
	Player     *playback.Player
	Logger     *log.Logger
}

type dialogResult struct {
	accent bool
	class  palette.Class
	color  color.Color
	path   string
	err    error
}

// Game is an ebiten.Game and the window surface for a lifecycle
// controller.
type Game struct {
	ctrl   *lifecycle.Controller
	queue  *lifecycle.FrameQueue
	player *playback.Player
	log    *log.Logger

	background color.NRGBA
	batch      bool
	debug      bool
	still      bool

	start   time.Time
	started bool

	// outside size is in surface units, the screen is that times scale
	outsideW, outsideH int
	scale              float64
	resized            bool

	frame   *render.Frame
	stroker stroker

	touchIDs []ebiten.TouchID
	pointer  bool

	dialogs    chan dialogResult
	dialogOpen bool
	lastErr    error
}

// New builds the window game and its controller around sc.
func New(sc *scene.Context, o Options) *Game {
	logger := o.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "constellation: ", log.LstdFlags)
	}
	g := &Game{
		queue:      &lifecycle.FrameQueue{},
		player:     o.Player,
		log:        logger,
		background: color.NRGBA{R: o.Background.R, G: o.Background.G, B: o.Background.B, A: 0xff},
		batch:      o.Batch,
		debug:      o.Debug,
		still:      o.Still,
		start:      time.Now(),
		scale:      1,
		dialogs:    make(chan dialogResult, 1),
	}
	g.ctrl = lifecycle.New(sc, g, g, g.queue, lifecycle.WithLogger(logger))
	return g
}

// Controller exposes the lifecycle controller.
func (g *Game) Controller() *lifecycle.Controller { return g.ctrl }

// Size implements lifecycle.Surface in surface units.
func (g *Game) Size() (int, int) { return g.outsideW, g.outsideH }

// Paint implements lifecycle.Painter. The frame is kept and drawn by Draw.
func (g *Game) Paint(f *render.Frame) error {
	if f.Palette == nil {
		return errors.New("frame has no palette")
	}
	g.frame = f
	return nil
}

func (g *Game) Update() error {
	if !g.started && !g.still {
		g.started = true
		g.ctrl.Start()
		// Start measured the size Layout just reported
		g.resized = false
	}
	if g.resized {
		g.resized = false
		g.ctrl.OnResize()
	}
	g.ctrl.SetVisible(!ebiten.IsWindowMinimized())
	g.updatePointer()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.Close()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.player.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		cl := palette.Primary
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			cl = palette.Secondary
		}
		g.pickAccent(cl)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.pickSoundtrack()
	}
	g.drainDialogs()

	g.queue.Fire(time.Since(g.start))
	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := deviceScale()
	if outsideWidth != g.outsideW || outsideHeight != g.outsideH || scale != g.scale {
		g.outsideW, g.outsideH = outsideWidth, outsideHeight
		g.scale = scale
		g.resized = true
		g.ctrl.Scene().Tracker().SetViewport(focal.Viewport{ScaleX: 1 / scale, ScaleY: 1 / scale})
	}
	return int(float64(outsideWidth) * scale), int(float64(outsideHeight) * scale)
}

// Close tears the effect down and stops the soundtrack.
func (g *Game) Close() {
	g.ctrl.Dispose()
	g.player.Close()
}

// updatePointer feeds the first touch, or else the cursor, to the
// controller. Leaving the screen is a pointer-leave.
func (g *Game) updatePointer() {
	var x, y int
	ok := false
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	if len(g.touchIDs) > 0 {
		x, y = ebiten.TouchPosition(g.touchIDs[0])
		ok = true
	} else {
		x, y = ebiten.CursorPosition()
		ok = ebiten.IsFocused()
	}
	w := int(float64(g.outsideW) * g.scale)
	h := int(float64(g.outsideH) * g.scale)
	if !ok || x < 0 || y < 0 || x >= w || y >= h {
		if g.pointer {
			g.pointer = false
			g.ctrl.PointerLeave()
		}
		return
	}
	g.pointer = true
	g.ctrl.PointerMove(float64(x), float64(y))
}

// Dialogs block, so they run off the game goroutine and report back
// through g.dialogs.
func (g *Game) pickAccent(cl palette.Class) {
	if g.dialogOpen {
		return
	}
	g.dialogOpen = true
	cur := g.ctrl.Scene().Palette().Base(cl)
	go func() {
		c, err := zenity.SelectColor(
			zenity.Title("Accent colour"),
			zenity.Color(color.NRGBA{R: cur.R, G: cur.G, B: cur.B, A: 0xff}),
		)
		g.dialogs <- dialogResult{accent: true, class: cl, color: c, err: err}
	}()
}

func (g *Game) pickSoundtrack() {
	if g.dialogOpen || g.player == nil {
		return
	}
	g.dialogOpen = true
	go func() {
		path, err := zenity.SelectFile(
			zenity.Title("Open soundtrack"),
			zenity.FileFilters{{
				Name:     "Audio",
				Patterns: []string{"*.wav", "*.mp3", "*.flac"},
			}},
		)
		g.dialogs <- dialogResult{path: path, err: err}
	}()
}

func (g *Game) drainDialogs() {
	select {
	case r := <-g.dialogs:
		g.dialogOpen = false
		switch {
		case errors.Is(r.err, zenity.ErrCanceled):
		case r.err != nil:
			g.lastErr = r.err
			g.log.Printf("dialog: %v", r.err)
		case r.accent:
			rgb := palette.FromColor(r.color)
			g.ctrl.SetAccent(r.class, rgb)
			g.log.Printf("accent %d set to %s", r.class, rgb.Hex())
		default:
			if err := g.player.Play(r.path); err != nil {
				g.lastErr = err
				g.log.Printf("soundtrack: %v", err)
				return
			}
			g.lastErr = nil
			g.log.Printf("playing %s", r.path)
		}
	default:
	}
}

func deviceScale() float64 {
	m := ebiten.Monitor()
	if m == nil {
		return 1
	}
	return clampScale(m.DeviceScaleFactor(), config.MaxDeviceScale)
}
