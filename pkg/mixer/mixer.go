// Package mixer composes per-scene narration clips into the single master
// PCM track the recording carries. Each clip is scheduled at its scene's
// timeline start offset; all scheduling shares sample zero as the common
// anchor, the same instant the frame loop measures elapsed time from, so
// audio and video cannot drift apart.
package mixer

import (
	"math"

	"github.com/JaeGeun1978/storycast/pkg/media"
	"github.com/JaeGeun1978/storycast/pkg/timeline"
)

// Mix sums every decoded clip into one mono track at sampleRate. A scene
// whose clip holds no samples (decode failure) simply contributes silence
// for its window; it never aborts the mix. Summation saturates at int16
// bounds.
func Mix(clips []*media.AudioClip, entries []timeline.Entry, sampleRate int) []int16 {
	total := timeline.Total(entries)
	master := make([]int16, int(math.Ceil(total*float64(sampleRate))))

	for i, clip := range clips {
		if i >= len(entries) || clip == nil || len(clip.Samples) == 0 {
			continue
		}
		samples := Resample(clip.Samples, clip.SampleRate, sampleRate)
		offset := int(math.Round(entries[i].Start * float64(sampleRate)))
		addInto(master, samples, offset)
	}
	return master
}

// addInto adds src into dst starting at offset, saturating on overflow.
func addInto(dst []int16, src []int16, offset int) {
	for i, s := range src {
		j := offset + i
		if j < 0 || j >= len(dst) {
			continue
		}
		sum := int(dst[j]) + int(s)
		if sum > math.MaxInt16 {
			sum = math.MaxInt16
		} else if sum < math.MinInt16 {
			sum = math.MinInt16
		}
		dst[j] = int16(sum)
	}
}

// Resample converts samples between rates with linear interpolation.
// Matching rates return the input unchanged.
func Resample(samples []int16, from, to int) []int16 {
	if from == to || from <= 0 || to <= 0 || len(samples) == 0 {
		return samples
	}

	outLen := int(math.Round(float64(len(samples)) * float64(to) / float64(from)))
	if outLen == 0 {
		return nil
	}

	out := make([]int16, outLen)
	ratio := float64(from) / float64(to)
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = int16(float64(samples[j])*(1-frac) + float64(samples[j+1])*frac)
	}
	return out
}
