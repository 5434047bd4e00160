package container

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func testFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func TestAVIWriterStructure(t *testing.T) {
	w := NewAVIWriter(320, 240, 10, 24000)
	for i := 0; i < 20; i++ {
		if err := w.AddFrame(testFrame(320, 240, color.RGBA{uint8(i * 10), 40, 200, 255})); err != nil {
			t.Fatalf("add frame %d: %v", i, err)
		}
	}
	w.SetAudio(make([]int16, 48000)) // 2s at 24kHz

	var buf bytes.Buffer
	if err := w.Finalize(&buf); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	data := buf.Bytes()

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "AVI " {
		t.Fatalf("bad RIFF header: %q %q", data[0:4], data[8:12])
	}

	// Declared RIFF size covers everything after the 8-byte RIFF prefix.
	declared := binary.LittleEndian.Uint32(data[4:8])
	if int(declared) != len(data)-8 {
		t.Fatalf("declared size %d, actual %d", declared, len(data)-8)
	}

	if string(data[12:16]) != "LIST" || string(data[20:24]) != "hdrl" {
		t.Fatalf("hdrl list missing")
	}

	// Two streams declared in avih.
	streams := binary.LittleEndian.Uint32(data[24+8+24 : 24+8+28])
	if streams != 2 {
		t.Fatalf("avih streams = %d, want 2", streams)
	}

	// Both stream chunk types appear, and the index covers them all.
	videoChunks := bytes.Count(data, []byte("00dc")) // movi + idx1 entries
	audioChunks := bytes.Count(data, []byte("01wb"))
	if videoChunks != 2*20 {
		t.Fatalf("expected 40 '00dc' markers (20 chunks + 20 index entries), got %d", videoChunks)
	}
	if audioChunks != 2*20 {
		t.Fatalf("expected 40 '01wb' markers, got %d", audioChunks)
	}

	if !bytes.Contains(data, []byte("idx1")) {
		t.Fatalf("idx1 missing")
	}
}

func TestAVIWriterAudioSlicesCoverEverySample(t *testing.T) {
	w := NewAVIWriter(64, 64, 30, 24001) // deliberately not divisible by fps
	for i := 0; i < 90; i++ {
		w.frames = append(w.frames, []byte{0xff, 0xd8}) // size is all that matters here
	}
	w.SetAudio(make([]int16, 24001*3))

	covered := 0
	prevEnd := 0
	for i := range w.frames {
		s, e := w.audioSliceBounds(i)
		if s != prevEnd {
			t.Fatalf("frame %d: slice starts at %d, previous ended at %d", i, s, prevEnd)
		}
		covered += e - s
		prevEnd = e
	}
	if covered != len(w.audio) {
		t.Fatalf("slices cover %d samples, want %d", covered, len(w.audio))
	}
}

func TestAVIWriterNoFrames(t *testing.T) {
	w := NewAVIWriter(320, 240, 30, 24000)
	var buf bytes.Buffer
	if err := w.Finalize(&buf); err == nil {
		t.Fatal("expected error when finalizing with no frames")
	}
}

func TestAVIWriterVideoOnly(t *testing.T) {
	w := NewAVIWriter(160, 120, 15, 24000)
	for i := 0; i < 5; i++ {
		if err := w.AddFrame(testFrame(160, 120, color.RGBA{200, 100, 0, 255})); err != nil {
			t.Fatalf("add frame: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := w.Finalize(&buf); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	data := buf.Bytes()

	streams := binary.LittleEndian.Uint32(data[24+8+24 : 24+8+28])
	if streams != 1 {
		t.Fatalf("avih streams = %d, want 1 without audio", streams)
	}
	if bytes.Contains(data, []byte("01wb")) {
		t.Fatalf("audio chunks present in video-only file")
	}
}
