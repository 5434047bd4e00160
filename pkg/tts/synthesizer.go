// Package tts defines the narration-acquisition seam. The renderer never
// calls a speech provider itself; callers synthesize per-scene audio blobs
// up front and pass them in as scene data.
package tts

import "context"

// VoiceProfile specifies voice characteristics for synthesis.
type VoiceProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Gender   string `json:"gender"`
}

// Synthesizer converts narration text into a playable audio blob (WAV).
// Implementations wrap external speech providers with whatever fallback
// chain they need; the renderer only sees the resulting bytes.
type Synthesizer interface {
	// Synthesize returns an encoded audio blob for the text.
	Synthesize(ctx context.Context, text string, voice VoiceProfile) ([]byte, error)

	// AvailableVoices returns supported voice profiles for a language code.
	AvailableVoices(lang string) []VoiceProfile
}
