package render

import (
	"testing"

	"github.com/iburimskiy/constellation/internal/palette"
	"github.com/iburimskiy/constellation/internal/particle"
	"github.com/iburimskiy/constellation/internal/proximity"
)

var testStyle = Style{DotBaseAlpha: 0.55, FocalLineAlpha: 0.9, FocalLineMax: 0.6, LineWidth: 0.9}

func testPalette() *palette.Palette {
	return palette.New(palette.RGB{R: 0x51, G: 0xa2, B: 0xe9}, palette.RGB{R: 0xff, G: 0x4d, B: 0x5a}, 24)
}

func TestComposeInactiveFocus(t *testing.T) {
	ps := []particle.Particle{{X: 1, Y: 1, R: 2}, {X: 5, Y: 5, R: 1, Class: palette.Secondary}}
	var f Frame
	Compose(&f, Input{
		Width: 10, Height: 10,
		Particles: ps,
		Proximity: []float64{0, 0},
		Palette:   testPalette(),
		Style:     testStyle,
		Opacity:   1,
	})
	if len(f.Dots) != 2 {
		t.Fatalf("dots = %d, want 2", len(f.Dots))
	}
	base := testPalette().Bucket(testStyle.DotBaseAlpha)
	for i, d := range f.Dots {
		if d.Bucket != base {
			t.Errorf("dot %d bucket = %d, want base %d", i, d.Bucket, base)
		}
	}
	if f.Dots[1].Class != palette.Secondary {
		t.Error("dot class not carried through")
	}
	if links, focal := f.Segments(); links != 0 || focal != 0 {
		t.Errorf("segments = %d links, %d focal; want none", links, focal)
	}
}

func TestComposeBucketsLinks(t *testing.T) {
	pal := testPalette()
	ps := []particle.Particle{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}}
	links := []proximity.Link{{A: 0, B: 1, Strength: 0.5}, {A: 1, B: 2, Strength: 0.5}, {A: 0, B: 2, Strength: 0.001}}
	var f Frame
	Compose(&f, Input{Particles: ps, Proximity: []float64{0, 0, 0}, Links: links, Palette: pal, Style: testStyle, Opacity: 1})

	b := pal.Bucket(0.5)
	if len(f.Links[b]) != 2 {
		t.Errorf("bucket %d holds %d segments, want 2", b, len(f.Links[b]))
	}
	if n, _ := f.Segments(); n != 2 {
		t.Errorf("total link segments = %d, want 2 (invisible link dropped)", n)
	}
	if got := f.Links[b][0]; got != (Segment{0, 0, 10, 0}) {
		t.Errorf("segment = %+v", got)
	}
}

func TestComposeFocalSegments(t *testing.T) {
	pal := testPalette()
	ps := []particle.Particle{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 50, Y: 50}}
	prox := []float64{1, 0.5, 0}
	var f Frame
	Compose(&f, Input{
		Particles: ps,
		Proximity: prox,
		Focus:     Focus{X: 0, Y: 0, Active: true},
		Palette:   pal,
		Style:     testStyle,
		Opacity:   1,
	})
	if _, n := f.Segments(); n != 2 {
		t.Fatalf("focal segments = %d, want 2", n)
	}
	capped := pal.Bucket(testStyle.FocalLineMax)
	if len(f.Focal[capped]) != 1 {
		t.Errorf("closest particle should use the capped alpha bucket %d", capped)
	}
	quarter := pal.Bucket(0.9 * 0.25)
	if len(f.Focal[quarter]) != 1 {
		t.Errorf("half proximity should land in bucket %d (alpha %.3f)", quarter, 0.9*0.25)
	}
	if f.Dots[0].Bucket != pal.Buckets()-1 {
		t.Errorf("dot at focus bucket = %d, want opaque", f.Dots[0].Bucket)
	}
}

func TestFocalAlpha(t *testing.T) {
	if got := FocalAlpha(0.5, testStyle); got != 0.225 {
		t.Errorf("FocalAlpha(0.5) = %v, want 0.225", got)
	}
	if got := FocalAlpha(1, testStyle); got != 0.6 {
		t.Errorf("FocalAlpha(1) = %v, want cap 0.6", got)
	}
}

func TestComposeOpacity(t *testing.T) {
	ps := []particle.Particle{{X: 1, Y: 1}}
	var f Frame
	Compose(&f, Input{Particles: ps, Proximity: []float64{0}, Palette: testPalette(), Style: testStyle, Opacity: 0})
	if len(f.Dots) != 0 {
		t.Errorf("fully faded frame drew %d dots", len(f.Dots))
	}
}

func TestFrameReuse(t *testing.T) {
	pal := testPalette()
	ps := []particle.Particle{{X: 0, Y: 0}, {X: 1, Y: 0}}
	in := Input{Particles: ps, Proximity: []float64{1, 1}, Links: []proximity.Link{{A: 0, B: 1, Strength: 0.9}},
		Focus: Focus{Active: true}, Palette: pal, Style: testStyle, Opacity: 1}
	var f Frame
	Compose(&f, in)
	Compose(&f, in)
	if links, focal := f.Segments(); links != 1 || focal != 2 {
		t.Errorf("after recompose: %d links, %d focal; want 1, 2", links, focal)
	}
	if len(f.Dots) != 2 {
		t.Errorf("after recompose: %d dots, want 2", len(f.Dots))
	}
}
