package mixer

import (
	"math"
	"testing"

	"github.com/JaeGeun1978/storycast/pkg/media"
	"github.com/JaeGeun1978/storycast/pkg/timeline"
)

const rate = 1000 // small rate keeps the test arithmetic readable

func constantClip(value int16, seconds float64) *media.AudioClip {
	samples := make([]int16, int(seconds*rate))
	for i := range samples {
		samples[i] = value
	}
	return &media.AudioClip{Samples: samples, SampleRate: rate, Duration: seconds}
}

func TestMixPlacesClipsAtTimelineOffsets(t *testing.T) {
	clips := []*media.AudioClip{
		constantClip(100, 1.0),
		constantClip(200, 1.0),
	}
	entries := timeline.Build([]float64{1.0, 1.0}, 0.5)

	master := Mix(clips, entries, rate)

	wantLen := int(math.Ceil(timeline.Total(entries) * rate))
	if len(master) != wantLen {
		t.Fatalf("master length %d, want %d", len(master), wantLen)
	}

	// Scene 0 audio at its start, pad after it is silent.
	if master[100] != 100 {
		t.Fatalf("scene 0 sample = %d, want 100", master[100])
	}
	if master[1200] != 0 {
		t.Fatalf("scene 0 pad sample = %d, want silence", master[1200])
	}
	// Scene 1 starts at 1.5s.
	if master[1400] != 0 {
		t.Fatalf("pre-scene-1 sample = %d, want silence", master[1400])
	}
	if master[1600] != 200 {
		t.Fatalf("scene 1 sample = %d, want 200", master[1600])
	}
}

func TestMixNilClipContributesSilence(t *testing.T) {
	clips := []*media.AudioClip{
		nil,
		{Duration: 1.0}, // decode failed: duration only, no samples
		constantClip(50, 1.0),
	}
	entries := timeline.Build([]float64{1.0, 1.0, 1.0}, 0)

	master := Mix(clips, entries, rate)
	if master[500] != 0 || master[1500] != 0 {
		t.Fatalf("silent scenes leaked samples: %d %d", master[500], master[1500])
	}
	if master[2500] != 50 {
		t.Fatalf("scene 2 sample = %d, want 50", master[2500])
	}
}

func TestMixSaturates(t *testing.T) {
	loud := constantClip(math.MaxInt16, 0.1)
	// Two max-volume clips forced onto the same window.
	entries := []timeline.Entry{
		{Start: 0, End: 0.1, Duration: 0.1},
		{Start: 0, End: 0.1, Duration: 0.1},
	}

	master := Mix([]*media.AudioClip{loud, loud}, entries, rate)
	if master[50] != math.MaxInt16 {
		t.Fatalf("sum = %d, want saturation at %d", master[50], math.MaxInt16)
	}
}

func TestResampleLengthAndEndpoints(t *testing.T) {
	src := make([]int16, 24000)
	for i := range src {
		src[i] = int16(i % 1000)
	}

	up := Resample(src, 24000, 48000)
	if len(up) != 48000 {
		t.Fatalf("upsample length %d, want 48000", len(up))
	}
	down := Resample(src, 24000, 12000)
	if len(down) != 12000 {
		t.Fatalf("downsample length %d, want 12000", len(down))
	}
	if same := Resample(src, 24000, 24000); len(same) != len(src) {
		t.Fatalf("identity resample changed length")
	}
}
