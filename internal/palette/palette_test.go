package palette

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"#51a2e9", RGB{0x51, 0xa2, 0xe9}},
		{"51A2E9", RGB{0x51, 0xa2, 0xe9}},
		{"#fff", RGB{255, 255, 255}},
		{"a0c", RGB{0xaa, 0x00, 0xcc}},
		{"  #ff4d5a ", RGB{0xff, 0x4d, 0x5a}},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if err != nil {
			t.Errorf("ParseHex(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseHexMalformed(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#1234", "#1234567", "#gggggg", "blue"} {
		if _, err := ParseHex(in); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseHex(%q) err = %v, want ErrMalformed", in, err)
		}
	}
}

func TestResolveFallback(t *testing.T) {
	if got := Resolve("", "#ff4d5a"); got != (RGB{0xff, 0x4d, 0x5a}) {
		t.Errorf("Resolve(empty) = %+v", got)
	}
	if got := Resolve("nope", "#000"); got != (RGB{}) {
		t.Errorf("Resolve(nope) = %+v", got)
	}
	if got := Resolve("nope", "also nope"); got != (RGB{}) {
		t.Errorf("Resolve with bad fallback = %+v, want black", got)
	}
}

func TestHexRoundTrip(t *testing.T) {
	c := RGB{0x51, 0xa2, 0xe9}
	if got := c.Hex(); got != "#51a2e9" {
		t.Errorf("Hex() = %s", got)
	}
}

func TestBucket(t *testing.T) {
	p := New(RGB{255, 0, 0}, RGB{0, 0, 255}, 24)
	if p.Buckets() != 24 {
		t.Fatalf("Buckets() = %d", p.Buckets())
	}
	tests := []struct {
		alpha float64
		want  int
	}{
		{-1, 0},
		{0, 0},
		{0.01, 0},
		{0.5, 12},
		{1, 23},
		{7, 23},
	}
	for _, tt := range tests {
		if got := p.Bucket(tt.alpha); got != tt.want {
			t.Errorf("Bucket(%v) = %d, want %d", tt.alpha, got, tt.want)
		}
	}
}

func TestBucketQuantisationError(t *testing.T) {
	p := New(RGB{}, RGB{}, 24)
	half := 0.5 / float64(p.Buckets()-1)
	for a := 0.0; a <= 1.0; a += 0.013 {
		q := p.Alpha(p.Bucket(a))
		if d := q - a; d > half+1e-9 || d < -half-1e-9 {
			t.Errorf("alpha %v quantised to %v, error %v exceeds %v", a, q, d, half)
		}
	}
}

func TestColorTable(t *testing.T) {
	p := New(RGB{10, 20, 30}, RGB{40, 50, 60}, 5)
	if got := p.Color(Primary, 4); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("opaque primary = %+v", got)
	}
	if got := p.Color(Secondary, 0); got != (color.NRGBA{40, 50, 60, 0}) {
		t.Errorf("transparent secondary = %+v", got)
	}
	if got := p.Color(Primary, 2).A; got != 128 {
		t.Errorf("half alpha = %d, want 128", got)
	}
	if got := p.Color(Primary, 99).A; got != 255 {
		t.Errorf("out of range bucket alpha = %d, want clamp to 255", got)
	}
}

func TestWith(t *testing.T) {
	p := New(RGB{1, 1, 1}, RGB{2, 2, 2}, 4)
	q := p.With(Secondary, RGB{9, 9, 9})
	if q.Base(Secondary) != (RGB{9, 9, 9}) || q.Base(Primary) != (RGB{1, 1, 1}) {
		t.Errorf("With() bases = %+v / %+v", q.Base(Primary), q.Base(Secondary))
	}
	if p.Base(Secondary) != (RGB{2, 2, 2}) {
		t.Error("With() mutated the receiver")
	}
}

func TestFromColor(t *testing.T) {
	if got := FromColor(color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff}); got != (RGB{0x33, 0x66, 0x99}) {
		t.Errorf("FromColor = %+v", got)
	}
}
