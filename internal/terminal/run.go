package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/constellation/internal/lifecycle"
)

// HostFrame is how often the frame queue is fired. The controller's pacer
// decides which of these frames become ticks.
const HostFrame = 8 * time.Millisecond

// Controller is the part of the lifecycle controller the event loop drives.
type Controller interface {
	OnResize()
	SetVisible(visible bool)
	PointerMove(x, y float64)
	PointerLeave()
	Dispose()
}

// Open creates and initialises a screen with mouse motion and focus
// reporting.
func Open() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()
	return screen, nil
}

// Run pumps screen events and fires queue until ctx ends or the user
// quits. Everything runs on the calling goroutine except event polling.
func Run(ctx context.Context, b *Backend, ctrl Controller, queue *lifecycle.FrameQueue) {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go b.screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(HostFrame)
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			ctrl.Dispose()
			return
		case ev, ok := <-events:
			if !ok || !b.handle(ev, ctrl) {
				ctrl.Dispose()
				return
			}
		case t := <-ticker.C:
			queue.Fire(t.Sub(start))
		}
	}
}

// handle applies one event. It returns false when the user asked to quit.
func (b *Backend) handle(ev tcell.Event, ctrl Controller) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			if ev.Rune() == 'q' || ev.Rune() == 'Q' {
				return false
			}
		}
	case *tcell.EventResize:
		b.screen.Sync()
		b.resize()
		ctrl.OnResize()
	case *tcell.EventMouse:
		x, y := ev.Position()
		if x < 0 || y < 0 || x >= b.cols || y >= b.rows {
			ctrl.PointerLeave()
			break
		}
		ctrl.PointerMove(float64(x), float64(y))
	case *tcell.EventFocus:
		ctrl.SetVisible(ev.Focused)
		if !ev.Focused {
			ctrl.PointerLeave()
		}
	}
	return true
}
