// fonts.go - Font management with custom TTF support and embedded fallback.
// Uses golang.org/x/image/font for OpenType rendering. Defaults to the Go
// fonts when no custom font is specified or when custom font loading fails.
package frame

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"go.uber.org/zap"
)

// FontManager parses font data once and hands out faces per size.
type FontManager struct {
	regular *opentype.Font
	bold    *opentype.Font
}

// NewFontManager loads the caption font. customPath overrides both weights;
// an unreadable or unparsable custom font falls back to the embedded Go
// fonts rather than failing.
func NewFontManager(customPath string, logger *zap.Logger) (*FontManager, error) {
	regularData := goregular.TTF
	boldData := gobold.TTF

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			logger.Warn("custom font unreadable, using embedded fonts",
				zap.String("path", customPath), zap.Error(err))
		} else if _, perr := opentype.Parse(data); perr != nil {
			logger.Warn("custom font unparsable, using embedded fonts",
				zap.String("path", customPath), zap.Error(perr))
		} else {
			regularData = data
			boldData = data
		}
	}

	regular, err := opentype.Parse(regularData)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(boldData)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	return &FontManager{regular: regular, bold: bold}, nil
}

// Face returns a regular-weight face at the given size.
func (fm *FontManager) Face(size float64) (font.Face, error) {
	return newFace(fm.regular, size)
}

// BoldFace returns a bold-weight face at the given size.
func (fm *FontManager) BoldFace(size float64) (font.Face, error) {
	return newFace(fm.bold, size)
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}
