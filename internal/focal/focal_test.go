package focal

import (
	"math"
	"testing"

	"github.com/iburimskiy/constellation/internal/config"
)

func pointerConfig(idle bool) config.Config {
	c := config.For(config.Desktop)
	c.DriftWhenIdle = idle
	return c
}

func TestPointerFollow(t *testing.T) {
	tr := New(pointerConfig(false))
	if _, _, ok := tr.Point(); ok {
		t.Fatal("no pointer yet, Point() should be inactive")
	}
	tr.PointerMove(120, 80)
	tr.Update(800, 600)
	x, y, ok := tr.Point()
	if !ok || x != 120 || y != 80 {
		t.Errorf("Point() = (%v, %v, %v), want (120, 80, true)", x, y, ok)
	}
	tr.PointerLeave()
	if _, _, ok := tr.Point(); ok {
		t.Error("Point() should be inactive after leave without idle drift")
	}
}

func TestViewportTranslation(t *testing.T) {
	tr := New(pointerConfig(false))
	tr.SetViewport(Viewport{OffsetX: 10, OffsetY: 20, ScaleX: 2, ScaleY: 4})
	tr.PointerMove(15, 25)
	x, y, _ := tr.Point()
	if x != 10 || y != 20 {
		t.Errorf("Point() = (%v, %v), want (10, 20)", x, y)
	}
}

func TestIdleDriftFallback(t *testing.T) {
	tr := New(pointerConfig(true))
	tr.Update(800, 600)
	if _, _, ok := tr.Point(); !ok {
		t.Fatal("idle drift should provide a focal point")
	}
	tr.PointerMove(5, 5)
	tr.Update(800, 600)
	if x, y, _ := tr.Point(); x != 5 || y != 5 {
		t.Errorf("live pointer should win over drift, got (%v, %v)", x, y)
	}
	tr.PointerLeave()
	tr.Update(800, 600)
	if x, _, ok := tr.Point(); !ok || x == 5 {
		t.Errorf("after leave drift should resume, got x=%v ok=%v", x, ok)
	}
}

func TestLeaveDoesNotJump(t *testing.T) {
	c := pointerConfig(true)
	tr := New(c)
	w, h := 1000.0, 800.0
	limit := math.Hypot(w, h) * c.DriftDamping

	// leave from an unseeded drift, then from a stale one
	for round := 0; round < 2; round++ {
		tr.PointerMove(50, 50)
		for i := 0; i < 10; i++ {
			tr.Update(w, h)
		}
		px, py, _ := tr.Point()
		tr.PointerLeave()
		for i := 0; i < 200; i++ {
			tr.Update(w, h)
			x, y, ok := tr.Point()
			if !ok {
				t.Fatalf("round %d step %d: no focal point after leave", round, i)
			}
			if d := math.Hypot(x-px, y-py); d > limit {
				t.Fatalf("round %d step %d: focal jumped %v from (%v, %v) to (%v, %v)", round, i, d, px, py, x, y)
			}
			px, py = x, y
		}
	}
}

func TestAutonomousIgnoresPointer(t *testing.T) {
	c := config.For(config.Touch)
	tr := New(c)
	tr.PointerMove(1, 1)
	if tr.PointerActive() {
		t.Error("autonomous tracker accepted a pointer")
	}
	tr.Update(400, 400)
	x, y, ok := tr.Point()
	if !ok {
		t.Fatal("autonomous drift is always active")
	}
	if x == 1 && y == 1 {
		t.Error("autonomous tracker followed the pointer")
	}
}

func TestDriftIsExponentialPursuit(t *testing.T) {
	c := config.For(config.Touch)
	tr := New(c)
	w, h := 1000.0, 800.0
	tr.Update(w, h)
	px, py, _ := tr.Point()
	for i := 0; i < 2000; i++ {
		tr.Update(w, h)
		tx, ty := tr.Target()
		x, y, _ := tr.Point()

		// each step covers exactly damping of the remaining distance
		wantX := px + (tx-px)*c.DriftDamping
		wantY := py + (ty-py)*c.DriftDamping
		if math.Abs(x-wantX) > 1e-9 || math.Abs(y-wantY) > 1e-9 {
			t.Fatalf("step %d: drift (%v, %v), want (%v, %v)", i, x, y, wantX, wantY)
		}
		// never teleports
		if math.Hypot(x-px, y-py) > math.Hypot(w, h)*c.DriftDamping {
			t.Fatalf("step %d: jump of %v", i, math.Hypot(x-px, y-py))
		}
		if x < 0 || x > w || y < 0 || y > h {
			t.Fatalf("step %d: drift (%v, %v) left the surface", i, x, y)
		}
		px, py = x, y
	}
}

func TestResetRecentres(t *testing.T) {
	tr := New(config.For(config.Touch))
	for i := 0; i < 500; i++ {
		tr.Update(800, 600)
	}
	tr.Reset()
	tr.Update(200, 100)
	x, y, _ := tr.Point()
	if math.Abs(x-100) > 10 || math.Abs(y-50) > 10 {
		t.Errorf("after Reset drift at (%v, %v), want near (100, 50)", x, y)
	}
}
