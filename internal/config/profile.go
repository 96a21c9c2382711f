package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"
)

// Profile names one of the fixed tuning sets.
type Profile string

const (
	Desktop  Profile = "desktop"
	Touch    Profile = "touch"
	Terminal Profile = "terminal"
)

// lowCoreCount and below counts as a constrained device.
const lowCoreCount = 4

// Device is the coarse description used to pick a profile.
type Device struct {
	GOOS          string
	Cores         int
	CoarsePointer bool // touch is the primary input
}

// Detect describes the host the process is running on.
func Detect() Device {
	return Device{
		GOOS:          runtime.GOOS,
		Cores:         runtime.NumCPU(),
		CoarsePointer: runtime.GOOS == "android" || runtime.GOOS == "ios",
	}
}

// Classify maps a device to the desktop or touch profile.
func Classify(d Device) Profile {
	if d.CoarsePointer || d.GOOS == "android" || d.GOOS == "ios" {
		return Touch
	}
	if d.Cores > 0 && d.Cores <= lowCoreCount {
		return Touch
	}
	return Desktop
}

// ParseProfile accepts a profile name or "auto".
func ParseProfile(name string, d Device) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return Classify(d), nil
	case string(Desktop):
		return Desktop, nil
	case string(Touch):
		return Touch, nil
	case string(Terminal):
		return Terminal, nil
	}
	return "", fmt.Errorf("%w: unknown profile %q", ErrInvalid, name)
}

// For returns the tuning set for p. Unknown profiles get the desktop set.
func For(p Profile) Config {
	c := desktop()
	switch p {
	case Touch:
		c.Profile = Touch
		c.Mode = FocalAutonomous
		c.FPSCap = 30
		c.Density = 14000
		c.MaxDots = 220
		c.MinCount = 60
		c.MouseRadius = 300
		c.AttractionRadius = 300
	case Terminal:
		c.Profile = Terminal
		c.Density = 60
		c.MaxDots = 260
		c.MinCount = 40
		c.LinkDistance = 22
		c.LineWidth = 1
		c.MouseRadius = 60
		c.AttractionRadius = 60
		c.Speed = 0.3
		c.MaxSpeed = 0.8
		c.DotMinR = 0.5
		c.DotMaxR = 1
		c.FPSCap = 30
	}
	return c
}

func desktop() Config {
	return Config{
		Profile: Desktop,

		Density:  9500,
		MinCount: 80,
		MaxDots:  520,

		LinkDistance: 115,
		LineWidth:    0.9,
		MaxLineAlpha: 0.95,

		Mode:           FocalPointer,
		DriftWhenIdle:  true,
		MouseRadius:    360,
		DriftDamping:   0.012,
		FocalLineAlpha: 0.9,
		FocalLineMax:   0.6,

		Speed:            0.42,
		Jitter:           0.18,
		JitterRate:       0.02,
		JitterScale:      0.01,
		AttractionRadius: 360,
		Attraction:       0.015 * 0.03,
		MaxSpeed:         1.2,
		PulseGain:        1.5,

		DotMinR:       1.0,
		DotMaxR:       2.6,
		DotBaseAlpha:  0.55,
		SecondaryBias: 0.12,

		Accent:       DefaultAccent,
		Accent2:      DefaultAccent2,
		Background:   DefaultBackground,
		AlphaBuckets: 24,

		FPSCap:         60,
		StallFactor:    4,
		ResizeDebounce: 80 * time.Millisecond,
		ResizeRetries:  120,
		FadeIn:         600 * time.Millisecond,

		Search: SearchGrid,
		Batch:  true,
	}
}

// Environment variables standing in for the host page's style properties.
const (
	EnvAccent        = "CONSTELLATION_ACCENT"
	EnvAccent2       = "CONSTELLATION_ACCENT2"
	EnvReducedMotion = "CONSTELLATION_REDUCED_MOTION"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(string) (string, bool)

// ApplyEnv copies non-empty accent overrides into c.
func ApplyEnv(c Config, lookup LookupFunc) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvAccent); ok && strings.TrimSpace(v) != "" {
		c.Accent = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvAccent2); ok && strings.TrimSpace(v) != "" {
		c.Accent2 = strings.TrimSpace(v)
	}
	return c
}

// ReducedMotion reports whether the environment asks for no animation.
// It is read once at startup.
func ReducedMotion(lookup LookupFunc) bool {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, ok := lookup(EnvReducedMotion)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "reduce":
		return true
	}
	return false
}
