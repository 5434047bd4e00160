package media

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/JaeGeun1978/storycast/pkg/container"
)

// Duration-estimate fallback when a blob is completely unusable. Narration
// pace is roughly nine characters a second.
const (
	estimateSecondsPerChar = 0.11
	minEstimatedSeconds    = 3.0
)

// AudioClip is one scene's decoded narration. Samples is nil when only the
// duration could be recovered — the scene then renders with silence.
// Duration is always positive.
type AudioClip struct {
	Samples    []int16
	SampleRate int
	Duration   float64
}

// LoadAudio decodes an audio blob with multi-stage fallback:
//
//  1. full WAV decode (samples + exact duration),
//  2. header-only duration probe (WAV declared size, or MP3 bitrate math) —
//     duration without samples,
//  3. estimate from caption text length, floored at a few seconds.
//
// It never fails; the weakest stage still yields a positive duration.
func LoadAudio(data []byte, captionText string, logger *zap.Logger) *AudioClip {
	if samples, rate, err := container.DecodeWAV(data); err == nil && len(samples) > 0 {
		return &AudioClip{
			Samples:    samples,
			SampleRate: rate,
			Duration:   float64(len(samples)) / float64(rate),
		}
	} else if err != nil && len(data) > 0 {
		logger.Warn("audio decode failed, probing header", zap.Int("bytes", len(data)), zap.Error(err))
	}

	if dur, err := container.ProbeWAVDuration(data); err == nil && dur > 0 {
		logger.Warn("audio renders silent, duration from WAV header", zap.Float64("seconds", dur))
		return &AudioClip{Duration: dur}
	}
	if dur, ok := probeMP3Duration(data); ok {
		logger.Warn("audio renders silent, duration from MP3 bitrate", zap.Float64("seconds", dur))
		return &AudioClip{Duration: dur}
	}

	dur := estimateDuration(captionText)
	logger.Warn("audio unusable, duration estimated from text",
		zap.Int("chars", utf8.RuneCountInString(captionText)),
		zap.Float64("seconds", dur),
	)
	return &AudioClip{Duration: dur}
}

func estimateDuration(text string) float64 {
	dur := estimateSecondsPerChar * float64(utf8.RuneCountInString(text))
	if dur < minEstimatedSeconds {
		dur = minEstimatedSeconds
	}
	return dur
}

// mpeg1Layer3Bitrates maps the MP3 frame-header bitrate index to kbit/s.
// Index 0 (free) and 15 (bad) are unusable.
var mpeg1Layer3Bitrates = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}

// probeMP3Duration estimates duration from the first MP3 frame header,
// assuming constant bitrate: size × 8 / bitrate. Good enough for the
// fallback path where only a scene pad is at stake.
func probeMP3Duration(data []byte) (float64, bool) {
	limit := min(len(data)-3, 4096)
	for i := 0; i < limit; i++ {
		if data[i] != 0xff || data[i+1]&0xe0 != 0xe0 {
			continue
		}
		version := data[i+1] >> 3 & 0x3
		layer := data[i+1] >> 1 & 0x3
		if version != 3 || layer != 1 { // MPEG-1 Layer III only
			continue
		}
		kbps := mpeg1Layer3Bitrates[data[i+2]>>4]
		if kbps == 0 {
			continue
		}
		dur := float64(len(data)-i) * 8 / float64(kbps*1000)
		if dur <= 0 {
			return 0, false
		}
		return dur, true
	}
	return 0, false
}
