// Package soundtrack decodes an optional background track and meters its
// loudness so the constellation can pulse with it.
package soundtrack

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

const (
	RingSize        = 8192
	WindowSize      = 2048
	SmoothingFactor = 0.6
	Compression     = 0.3 // exponent applied to RMS
)

// ErrUnsupported is returned for file types without a decoder.
var ErrUnsupported = errors.New("unsupported audio file")

// Track is a decoded, seekable stream and the file behind it.
type Track struct {
	Path     string
	Streamer beep.StreamSeekCloser
	Format   beep.Format
	file     *os.File
}

// Close releases the decoder and the file.
func (t *Track) Close() error {
	err := t.Streamer.Close()
	if cerr := t.file.Close(); err == nil && !errors.Is(cerr, os.ErrClosed) {
		err = cerr
	}
	return err
}

// Open decodes a wav, mp3 or flac file chosen by extension.
func Open(path string) (*Track, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".mp3", ".flac":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open soundtrack: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return &Track{Path: path, Streamer: streamer, Format: format, file: f}, nil
}

// Meter turns the most recent tapped audio into a smoothed level in
// [0, 1]. It is owned by the tick goroutine.
type Meter struct {
	tap    *Tap
	window [][2]float64
	level  float64
}

// NewMeter meters t.
func NewMeter(t *Tap) *Meter {
	return &Meter{tap: t, window: make([][2]float64, 0, WindowSize)}
}

// Level samples the tap and returns the smoothed loudness.
func (m *Meter) Level() float64 {
	if m == nil || m.tap == nil {
		return 0
	}
	m.window = m.tap.Snapshot(m.window, WindowSize)
	if len(m.window) == 0 {
		return m.level
	}
	mag := math.Min(1, math.Pow(RMS(m.window), Compression))
	m.level = SmoothingFactor*m.level + (1-SmoothingFactor)*mag
	return m.level
}

// RMS is the root mean square of the mono mix of frames.
func RMS(frames [][2]float64) float64 {
	if len(frames) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frames {
		mono := (s[0] + s[1]) * 0.5
		sum += mono * mono
	}
	return math.Sqrt(sum / float64(len(frames)))
}
