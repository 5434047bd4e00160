// Package media decodes per-scene image and audio blobs for rendering.
// Decode failures degrade instead of aborting: images fall back to a solid
// placeholder, audio falls back through a header probe to a text-length
// duration estimate, so every scene is always renderable.
package media

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"

	// Register decoders for the formats scene images arrive in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"go.uber.org/zap"
)

// placeholderColor fills the substitute frame when an image cannot be
// decoded. Dark navy keeps white caption text legible.
var placeholderColor = color.RGBA{0x1a, 0x1a, 0x2e, 0xff}

// LoadImage decodes an image blob. A blob that cannot be decoded yields a
// solid placeholder of the requested canvas size — never an error.
func LoadImage(data []byte, width, height int, logger *zap.Logger) image.Image {
	if len(data) > 0 {
		img, format, err := image.Decode(bytes.NewReader(data))
		if err == nil {
			return img
		}
		logger.Warn("image decode failed, using placeholder",
			zap.String("format", format),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
	}
	return Placeholder(width, height)
}

// Placeholder returns the flat-color substitute image.
func Placeholder(width, height int) image.Image {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{placeholderColor}, image.Point{}, draw.Src)
	return img
}
