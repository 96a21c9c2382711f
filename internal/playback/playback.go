// Package playback loops a soundtrack on the system speaker and exposes its
// loudness.
package playback

import (
	"fmt"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/iburimskiy/constellation/internal/soundtrack"
)

// Player owns the speaker. Only one track plays at a time.
type Player struct {
	initDone   bool
	sampleRate beep.SampleRate
	track      *soundtrack.Track
	ctrl       *beep.Ctrl
	meter      *soundtrack.Meter
}

// Play replaces the current track with path, looping forever.
func (p *Player) Play(path string) error {
	track, err := soundtrack.Open(path)
	if err != nil {
		return err
	}

	bufferSize := track.Format.SampleRate.N(time.Second / 20)
	switch {
	case !p.initDone:
		if err := speaker.Init(track.Format.SampleRate, bufferSize); err != nil {
			_ = track.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
		p.initDone = true
	case p.sampleRate != track.Format.SampleRate:
		speaker.Clear()
		if err := speaker.Init(track.Format.SampleRate, bufferSize); err != nil {
			_ = track.Close()
			return fmt.Errorf("reinit speaker: %w", err)
		}
	default:
		speaker.Clear()
	}
	p.sampleRate = track.Format.SampleRate

	if p.track != nil {
		_ = p.track.Close()
	}
	tap := soundtrack.NewTap(beep.Loop(-1, track.Streamer), soundtrack.RingSize)
	p.track = track
	p.ctrl = &beep.Ctrl{Streamer: tap}
	p.meter = soundtrack.NewMeter(tap)
	speaker.Play(p.ctrl)
	return nil
}

// TogglePause pauses or resumes the current track.
func (p *Player) TogglePause() {
	if p == nil || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = !p.ctrl.Paused
	speaker.Unlock()
}

// Paused reports whether a loaded track is paused.
func (p *Player) Paused() bool {
	if p == nil || p.ctrl == nil {
		return false
	}
	speaker.Lock()
	defer speaker.Unlock()
	return p.ctrl.Paused
}

// Playing reports whether a track is loaded.
func (p *Player) Playing() bool { return p != nil && p.track != nil }

// Level is the loudness of what is currently playing, 0 when silent or
// paused.
func (p *Player) Level() float64 {
	if p == nil || p.Paused() {
		return 0
	}
	return p.meter.Level()
}

// Close stops playback and releases the track.
func (p *Player) Close() {
	if p == nil || !p.initDone {
		return
	}
	speaker.Clear()
	if p.track != nil {
		_ = p.track.Close()
		p.track = nil
	}
	p.ctrl = nil
	p.meter = nil
	speaker.Close()
	p.initDone = false
}
