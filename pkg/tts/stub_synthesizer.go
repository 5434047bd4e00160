package tts

import (
	"context"
	"unicode/utf8"

	"github.com/JaeGeun1978/storycast/pkg/container"
)

// StubSynthesizerConfig configures the stub synthesizer behavior.
type StubSynthesizerConfig struct {
	// SampleRate for generated audio.
	SampleRate int
	// SecondsPerChar scales the silent clip to the text length.
	SecondsPerChar float64
	// MinSeconds floors very short texts.
	MinSeconds float64
	// Voices reported as available, keyed by language code.
	Voices map[string][]VoiceProfile
}

// DefaultStubSynthesizerConfig returns sensible defaults for development
// and tests.
func DefaultStubSynthesizerConfig() *StubSynthesizerConfig {
	return &StubSynthesizerConfig{
		SampleRate:     24000,
		SecondsPerChar: 0.11,
		MinSeconds:     1.0,
		Voices: map[string][]VoiceProfile{
			"ko": {
				{ID: "ko-kr-1", Name: "Korean Female", Language: "ko", Gender: "female"},
				{ID: "ko-kr-2", Name: "Korean Male", Language: "ko", Gender: "male"},
			},
			"en": {
				{ID: "en-us-1", Name: "English US Female", Language: "en", Gender: "female"},
				{ID: "en-us-2", Name: "English US Male", Language: "en", Gender: "male"},
			},
		},
	}
}

// StubSynthesizer produces deterministic silent WAV clips whose length
// tracks the text, so timeline and caption behavior can be exercised
// without a speech provider.
type StubSynthesizer struct {
	config *StubSynthesizerConfig
}

// NewStubSynthesizer creates a stub synthesizer. A nil config uses defaults.
func NewStubSynthesizer(config *StubSynthesizerConfig) *StubSynthesizer {
	if config == nil {
		config = DefaultStubSynthesizerConfig()
	}
	return &StubSynthesizer{config: config}
}

// Synthesize returns a silent WAV sized by text length.
func (s *StubSynthesizer) Synthesize(ctx context.Context, text string, voice VoiceProfile) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seconds := s.config.SecondsPerChar * float64(utf8.RuneCountInString(text))
	if seconds < s.config.MinSeconds {
		seconds = s.config.MinSeconds
	}

	samples := make([]int16, int(seconds*float64(s.config.SampleRate)))
	return container.WAVBytes(samples, s.config.SampleRate), nil
}

// AvailableVoices returns supported voice profiles for a language.
func (s *StubSynthesizer) AvailableVoices(lang string) []VoiceProfile {
	return s.config.Voices[lang]
}
