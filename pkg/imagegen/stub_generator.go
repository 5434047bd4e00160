package imagegen

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

// StubGenerator produces deterministic solid-color PNGs. The color is
// derived from the prompt, so distinct scenes stay visually
// distinguishable in development renders.
type StubGenerator struct{}

// NewStubGenerator creates a stub generator.
func NewStubGenerator() *StubGenerator {
	return &StubGenerator{}
}

// Generate returns a solid-color PNG whose color is a hash of the prompt.
func (g *StubGenerator) Generate(ctx context.Context, prompt string, width, height int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}

	img := newSolidImage(width, height, promptColor(prompt))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// promptColor maps a prompt to a stable, muted color. Channels are
// halved and offset to avoid near-black and near-white extremes.
func promptColor(prompt string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(prompt))
	v := h.Sum32()
	return color.RGBA{
		R: uint8(v>>16)/2 + 0x40,
		G: uint8(v>>8)/2 + 0x40,
		B: uint8(v)/2 + 0x40,
		A: 255,
	}
}

// newSolidImage creates a uniform solid-color image using draw.Draw.
func newSolidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}
