// Package render orchestrates a full slideshow composition: it loads every
// scene's resources, builds the global timeline, mixes the narration track,
// drives the frame loop, and muxes the result into a playable video blob.
package render

import (
	"go.uber.org/zap"

	"github.com/JaeGeun1978/storycast/pkg/caption"
	"github.com/JaeGeun1978/storycast/pkg/frame"
)

// ProgressFunc receives render progress in percent (0–100) with a short
// status text. Invoked from the rendering goroutine.
type ProgressFunc func(percent float64, status string)

// Options configures one render session. Zero values take the project
// defaults; timing knobs are tunable rather than behavioral guarantees,
// they only have to stay positive.
type Options struct {
	Width      int // canvas width (default 1280)
	Height     int // canvas height (default 720)
	FPS        int // frames per second (default 30)
	SampleRate int // master audio rate in Hz (default 24000)

	PadSeconds  float64 // trailing silence per scene (default 0.7)
	FadeSeconds float64 // caption fade envelope (default 0.25)

	// SafetyMarginSeconds bounds the frame loop at
	// (total + margin) × FPS frames; hitting the bound finalizes a
	// truncated output instead of hanging (default 5).
	SafetyMarginSeconds float64

	Layout   frame.Layout
	FontPath string
	Caption  caption.Options

	Logger   *zap.Logger
	Progress ProgressFunc
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1280
	}
	if o.Height <= 0 {
		o.Height = 720
	}
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.SampleRate <= 0 {
		o.SampleRate = 24000
	}
	if o.PadSeconds <= 0 {
		o.PadSeconds = 0.7
	}
	if o.FadeSeconds <= 0 {
		o.FadeSeconds = 0.25
	}
	if o.SafetyMarginSeconds <= 0 {
		o.SafetyMarginSeconds = 5
	}
	if o.Caption.MaxLineChars <= 0 || o.Caption.LinesPerChunk <= 0 {
		defaults := caption.DefaultOptions()
		if o.Caption.MaxLineChars <= 0 {
			o.Caption.MaxLineChars = defaults.MaxLineChars
		}
		if o.Caption.LinesPerChunk <= 0 {
			o.Caption.LinesPerChunk = defaults.LinesPerChunk
		}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Progress == nil {
		o.Progress = func(float64, string) {}
	}
	return o
}
