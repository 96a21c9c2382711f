package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	WindowWidth  = 1280
	WindowHeight = 720

	// Accent fallbacks used when the environment provides nothing usable
	DefaultAccent     = "#51a2e9"
	DefaultAccent2    = "#ff4d5a"
	DefaultBackground = "#0b0f17"

	// Window backend never renders above this device scale
	MaxDeviceScale = 2.0
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// FocalMode selects how the focal point is driven.
type FocalMode int

const (
	// FocalPointer follows the pointer while it is over the surface.
	FocalPointer FocalMode = iota
	// FocalAutonomous ignores the pointer and drifts on its own.
	FocalAutonomous
)

func (m FocalMode) String() string {
	switch m {
	case FocalPointer:
		return "pointer"
	case FocalAutonomous:
		return "autonomous"
	default:
		return fmt.Sprintf("FocalMode(%d)", int(m))
	}
}

// Search selects the proximity pair search strategy.
type Search int

const (
	SearchGrid Search = iota
	SearchPairwise
)

func (s Search) String() string {
	switch s {
	case SearchGrid:
		return "grid"
	case SearchPairwise:
		return "pairwise"
	default:
		return fmt.Sprintf("Search(%d)", int(s))
	}
}

// ParseSearch accepts "grid" or "pairwise".
func ParseSearch(name string) (Search, error) {
	switch name {
	case "grid", "":
		return SearchGrid, nil
	case "pairwise":
		return SearchPairwise, nil
	}
	return 0, fmt.Errorf("%w: unknown search %q", ErrInvalid, name)
}

// Config is the resolved set of tuning values. It is built once at startup
// and passed by value; nothing mutates it afterwards.
type Config struct {
	Profile Profile

	// Particle count
	Density  float64 // surface area per particle
	MinCount int
	MaxDots  int

	// Links
	LinkDistance float64
	LineWidth    float64
	MaxLineAlpha float64

	// Focal point
	Mode           FocalMode
	DriftWhenIdle  bool    // pointer mode falls back to drift with no pointer
	MouseRadius    float64 // proximity radius
	DriftDamping   float64 // fraction of remaining distance per tick
	FocalLineAlpha float64
	FocalLineMax   float64

	// Motion
	Speed            float64
	Jitter           float64
	JitterRate       float64
	JitterScale      float64
	AttractionRadius float64
	Attraction       float64
	MaxSpeed         float64
	PulseGain        float64

	// Dots
	DotMinR       float64
	DotMaxR       float64
	DotBaseAlpha  float64
	SecondaryBias float64 // probability of the secondary accent

	// Palette
	Accent       string
	Accent2      string
	Background   string
	AlphaBuckets int

	// Pacing and lifecycle
	FPSCap         int
	StallFactor    int
	ResizeDebounce time.Duration
	ResizeRetries  int
	FadeIn         time.Duration

	Search Search
	Batch  bool
}

// FrameInterval is the minimum time between processed ticks.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPSCap)
}

// Validate reports the first inconsistent value.
func (c Config) Validate() error {
	switch {
	case c.Density <= 0:
		return fmt.Errorf("%w: density %v must be positive", ErrInvalid, c.Density)
	case c.MinCount < 0 || c.MaxDots < c.MinCount:
		return fmt.Errorf("%w: count range [%d, %d]", ErrInvalid, c.MinCount, c.MaxDots)
	case c.LinkDistance <= 0:
		return fmt.Errorf("%w: link distance %v must be positive", ErrInvalid, c.LinkDistance)
	case c.MouseRadius <= 0 || c.AttractionRadius <= 0:
		return fmt.Errorf("%w: focal radii must be positive", ErrInvalid)
	case c.DotMinR < 0 || c.DotMaxR < c.DotMinR:
		return fmt.Errorf("%w: dot radius range [%v, %v]", ErrInvalid, c.DotMinR, c.DotMaxR)
	case c.MaxSpeed <= 0:
		return fmt.Errorf("%w: max speed %v must be positive", ErrInvalid, c.MaxSpeed)
	case c.FPSCap <= 0:
		return fmt.Errorf("%w: fps cap %d must be positive", ErrInvalid, c.FPSCap)
	case c.AlphaBuckets < 2:
		return fmt.Errorf("%w: need at least 2 alpha buckets, got %d", ErrInvalid, c.AlphaBuckets)
	case c.DriftDamping <= 0 || c.DriftDamping > 1:
		return fmt.Errorf("%w: drift damping %v outside (0, 1]", ErrInvalid, c.DriftDamping)
	case c.SecondaryBias < 0 || c.SecondaryBias > 1:
		return fmt.Errorf("%w: secondary bias %v outside [0, 1]", ErrInvalid, c.SecondaryBias)
	case c.ResizeRetries < 0 || c.StallFactor < 1:
		return fmt.Errorf("%w: retry budget %d, stall factor %d", ErrInvalid, c.ResizeRetries, c.StallFactor)
	}
	return nil
}
