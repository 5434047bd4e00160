package media

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/JaeGeun1978/storycast/pkg/container"
)

func TestLoadImageDecodesPNG(t *testing.T) {
	src := Placeholder(40, 30)
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode: %v", err)
	}

	img := LoadImage(buf.Bytes(), 1280, 720, zap.NewNop())
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Fatalf("decoded bounds %v", img.Bounds())
	}
}

func TestLoadImageCorruptBlobYieldsPlaceholder(t *testing.T) {
	img := LoadImage([]byte("this is not an image"), 320, 200, zap.NewNop())
	if img == nil {
		t.Fatal("placeholder missing")
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 200 {
		t.Fatalf("placeholder bounds %v", img.Bounds())
	}
	r, g, b, _ := img.At(10, 10).RGBA()
	want := color.RGBA{0x1a, 0x1a, 0x2e, 0xff}
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
		t.Fatalf("placeholder is not the expected flat color")
	}
}

func TestLoadAudioDecodesWAV(t *testing.T) {
	blob := container.WAVBytes(make([]int16, 24000), 24000) // 1s silence

	clip := LoadAudio(blob, "", zap.NewNop())
	if clip.Samples == nil {
		t.Fatal("expected decoded samples")
	}
	if math.Abs(clip.Duration-1.0) > 1e-6 {
		t.Fatalf("duration %v, want 1.0", clip.Duration)
	}
	if clip.SampleRate != 24000 {
		t.Fatalf("rate %d", clip.SampleRate)
	}
}

func TestLoadAudioTruncatedWAVProbesHeader(t *testing.T) {
	full := container.WAVBytes(make([]int16, 48000), 24000) // declares 2s
	truncated := full[:50]

	clip := LoadAudio(truncated, "", zap.NewNop())
	if clip.Samples != nil {
		t.Fatal("truncated blob should not yield samples")
	}
	if math.Abs(clip.Duration-2.0) > 1e-6 {
		t.Fatalf("duration %v, want 2.0 from header", clip.Duration)
	}
}

func TestLoadAudioGarbageAlwaysPositiveDuration(t *testing.T) {
	cases := []struct {
		blob []byte
		text string
	}{
		{nil, ""},
		{[]byte("garbage"), ""},
		{[]byte("garbage"), "Hello."},
		{bytes.Repeat([]byte{0xab}, 5000), strings.Repeat("가나다라 ", 30)},
	}
	for i, c := range cases {
		clip := LoadAudio(c.blob, c.text, zap.NewNop())
		if clip.Duration <= 0 {
			t.Fatalf("case %d: duration %v, want > 0", i, clip.Duration)
		}
	}
}

func TestLoadAudioEstimateScalesWithText(t *testing.T) {
	short := LoadAudio(nil, "Hi.", zap.NewNop())
	long := LoadAudio(nil, strings.Repeat("long narration text ", 20), zap.NewNop())

	if short.Duration != minEstimatedSeconds {
		t.Fatalf("short text should hit the floor, got %v", short.Duration)
	}
	if long.Duration <= short.Duration {
		t.Fatalf("long text estimate %v should exceed floor %v", long.Duration, short.Duration)
	}
}
