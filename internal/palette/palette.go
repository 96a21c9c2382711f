// Package palette resolves accent colours and pre-renders their alpha
// variants so the per-frame path never builds colours.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrMalformed is returned for strings that are not 3- or 6-digit hex.
var ErrMalformed = errors.New("malformed hex colour")

// Class tags which accent a particle is drawn with.
type Class uint8

const (
	Primary Class = iota
	Secondary
	numClasses
)

// RGB is an 8-bit colour triple.
type RGB struct {
	R, G, B uint8
}

// ParseHex parses "#rgb", "rgb", "#rrggbb" or "rrggbb".
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 3 && len(h) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	for _, ch := range h {
		if !isHexDigit(ch) {
			return RGB{}, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
	}
	c, err := colorful.Hex("#" + strings.ToLower(h))
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
	}
	r, g, b := c.RGB255()
	return RGB{r, g, b}, nil
}

// Resolve parses s and falls back to fallback, then to black, when either
// is empty or malformed. It never fails.
func Resolve(s, fallback string) RGB {
	if c, err := ParseHex(s); err == nil {
		return c
	}
	if c, err := ParseHex(fallback); err == nil {
		return c
	}
	return RGB{}
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// Hex formats c as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Colorful converts c for blending.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// FromColor converts any colour, dropping alpha.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{n.R, n.G, n.B}
}

// Palette holds both accents at a fixed number of alpha steps. Bucket 0 is
// fully transparent and the last bucket is opaque.
type Palette struct {
	base    [numClasses]RGB
	buckets int
	table   [numClasses][]color.NRGBA
}

// New pre-renders buckets alpha variants of each accent.
func New(primary, secondary RGB, buckets int) *Palette {
	if buckets < 2 {
		buckets = 2
	}
	p := &Palette{base: [numClasses]RGB{primary, secondary}, buckets: buckets}
	for cl := range p.table {
		rgb := p.base[cl]
		row := make([]color.NRGBA, buckets)
		for i := range row {
			row[i] = color.NRGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: uint8(math.Round(p.Alpha(i) * 255))}
		}
		p.table[cl] = row
	}
	return p
}

// Buckets is the number of alpha steps.
func (p *Palette) Buckets() int { return p.buckets }

// Bucket rounds a continuous alpha to the nearest step.
func (p *Palette) Bucket(alpha float64) int {
	if !(alpha > 0) {
		return 0
	}
	if alpha >= 1 {
		return p.buckets - 1
	}
	return int(math.Round(alpha * float64(p.buckets-1)))
}

// Alpha is the opacity represented by bucket i.
func (p *Palette) Alpha(i int) float64 {
	return float64(i) / float64(p.buckets-1)
}

// Color returns the pre-rendered colour for class at bucket i.
func (p *Palette) Color(cl Class, i int) color.NRGBA {
	if i < 0 {
		i = 0
	} else if i >= p.buckets {
		i = p.buckets - 1
	}
	return p.table[cl%numClasses][i]
}

// Base is the opaque accent for class.
func (p *Palette) Base(cl Class) RGB {
	return p.base[cl%numClasses]
}

// With returns a copy of p with class recoloured.
func (p *Palette) With(cl Class, c RGB) *Palette {
	base := p.base
	base[cl%numClasses] = c
	return New(base[Primary], base[Secondary], p.buckets)
}
