// renderer.go — Pure drawing routines for one video frame: cover-fit image,
// caption block with fade, optional vocabulary overlay, scene-index badge.
// For the same (frame, alpha) input the output pixels are reproducible.
package frame

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"go.uber.org/zap"

	"github.com/JaeGeun1978/storycast/pkg/caption"
	"github.com/JaeGeun1978/storycast/pkg/scene"
)

// Config sizes the canvas and typography.
type Config struct {
	Width         int
	Height        int
	FontPath      string  // optional custom TTF; embedded Go fonts otherwise
	CaptionSize   float64 // caption point size (default height/18)
	VocabSize     float64 // vocabulary overlay point size (default height/32)
	BadgeSize     float64 // scene badge point size (default height/40)
	Layout        Layout
	PanelColor    color.NRGBA // split-panel caption background
	MaxScrimAlpha uint8       // darkest point of the caption scrim
}

// Frame is everything needed to paint one tick.
type Frame struct {
	Image      image.Image   // decoded scene bitmap (nil paints background only)
	Chunk      caption.Chunk // active caption chunk
	Alpha      float64       // caption opacity 0..1 from the fade envelope
	SceneIndex int           // zero-based
	SceneCount int
	Vocabulary []scene.VocabEntry
}

// Renderer draws frames onto an RGBA canvas.
type Renderer struct {
	cfg         Config
	layout      Layout
	captionFace font.Face
	vocabFace   font.Face
	badgeFace   font.Face
}

// NewRenderer prepares font faces for the configured sizes.
func NewRenderer(cfg Config, logger *zap.Logger) (*Renderer, error) {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.CaptionSize <= 0 {
		cfg.CaptionSize = float64(cfg.Height) / 18
	}
	if cfg.VocabSize <= 0 {
		cfg.VocabSize = float64(cfg.Height) / 32
	}
	if cfg.BadgeSize <= 0 {
		cfg.BadgeSize = float64(cfg.Height) / 40
	}
	if cfg.MaxScrimAlpha == 0 {
		cfg.MaxScrimAlpha = 190
	}
	if cfg.PanelColor == (color.NRGBA{}) {
		cfg.PanelColor = color.NRGBA{0x10, 0x10, 0x18, 0xff}
	}

	fm, err := NewFontManager(cfg.FontPath, logger)
	if err != nil {
		return nil, err
	}
	captionFace, err := fm.BoldFace(cfg.CaptionSize)
	if err != nil {
		return nil, err
	}
	vocabFace, err := fm.Face(cfg.VocabSize)
	if err != nil {
		return nil, err
	}
	badgeFace, err := fm.Face(cfg.BadgeSize)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		cfg:         cfg,
		layout:      cfg.Layout.normalized(),
		captionFace: captionFace,
		vocabFace:   vocabFace,
		badgeFace:   badgeFace,
	}, nil
}

// NewCanvas allocates the canvas Paint draws into.
func (r *Renderer) NewCanvas() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
}

// Paint renders one complete frame.
func (r *Renderer) Paint(dst *image.RGBA, f Frame) {
	bounds := dst.Bounds()

	imageRegion := bounds
	captionRegion := bounds
	if r.layout.Kind == LayoutSplitPanel {
		divider := bounds.Min.Y + int(float64(bounds.Dy())*r.layout.DividerFraction)
		imageRegion = image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, divider)
		captionRegion = image.Rect(bounds.Min.X, divider, bounds.Max.X, bounds.Max.Y)
		draw.Draw(dst, captionRegion, &image.Uniform{r.cfg.PanelColor}, image.Point{}, draw.Src)
	}

	if f.Image != nil {
		DrawCover(dst, imageRegion, f.Image)
	} else {
		draw.Draw(dst, imageRegion, &image.Uniform{color.NRGBA{0, 0, 0, 255}}, image.Point{}, draw.Src)
	}

	r.drawCaption(dst, captionRegion, f.Chunk, f.Alpha)
	if len(f.Vocabulary) > 0 {
		r.drawVocabulary(dst, f.Vocabulary)
	}
	r.drawBadge(dst, f.SceneIndex, f.SceneCount)
}

// CoverRect returns the centered crop of a srcW×srcH image whose aspect
// ratio matches dstW×dstH — the "background-size: cover" source rectangle.
func CoverRect(srcW, srcH, dstW, dstH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return image.Rect(0, 0, srcW, srcH)
	}

	srcAspect := float64(srcW) / float64(srcH)
	dstAspect := float64(dstW) / float64(dstH)

	if srcAspect > dstAspect {
		// Source is wider: crop left/right.
		cropW := int(float64(srcH) * dstAspect)
		x := (srcW - cropW) / 2
		return image.Rect(x, 0, x+cropW, srcH)
	}
	// Source is taller: crop top/bottom.
	cropH := int(float64(srcW) / dstAspect)
	y := (srcH - cropH) / 2
	return image.Rect(0, y, srcW, y+cropH)
}

// DrawCover scales src to fully cover region, cropping the overflow axis.
func DrawCover(dst *image.RGBA, region image.Rectangle, src image.Image) {
	sb := src.Bounds()
	crop := CoverRect(sb.Dx(), sb.Dy(), region.Dx(), region.Dy()).Add(sb.Min)
	xdraw.ApproxBiLinear.Scale(dst, region, src, crop, xdraw.Src, nil)
}

// drawCaption paints the chunk's lines bottom-anchored in region, behind a
// vertical scrim (full-canvas layout) and with a stroked outline so text
// stays legible over arbitrary imagery.
func (r *Renderer) drawCaption(dst *image.RGBA, region image.Rectangle, chunk caption.Chunk, alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}

	lines := visibleLines(chunk.Lines)
	if len(lines) == 0 {
		return
	}

	lineHeight := int(r.cfg.CaptionSize * 1.45)
	padding := int(r.cfg.CaptionSize * 0.6)
	blockH := len(lines)*lineHeight + 2*padding

	if r.layout.Kind == LayoutBottomCaption {
		r.drawScrim(dst, region, blockH+padding, alpha)
	}

	baseline := region.Max.Y - padding - (len(lines)-1)*lineHeight - descent(r.captionFace)
	strokeCol := color.NRGBA{0, 0, 0, uint8(220 * alpha)}
	fillCol := color.NRGBA{255, 255, 255, uint8(255 * alpha)}

	for i, line := range lines {
		width := font.MeasureString(r.captionFace, line).Ceil()
		x := region.Min.X + (region.Dx()-width)/2
		y := baseline + i*lineHeight
		drawOutlinedString(dst, r.captionFace, line, x, y, strokeCol, fillCol)
	}
}

// drawScrim fades the bottom of region to dark so white text reads well.
func (r *Renderer) drawScrim(dst *image.RGBA, region image.Rectangle, height int, alpha float64) {
	top := region.Max.Y - height
	if top < region.Min.Y {
		top = region.Min.Y
	}
	span := region.Max.Y - top
	if span <= 0 {
		return
	}

	for y := top; y < region.Max.Y; y++ {
		t := float64(y-top) / float64(span)
		rowAlpha := uint8(t * float64(r.cfg.MaxScrimAlpha) * alpha)
		if rowAlpha == 0 {
			continue
		}
		row := image.Rect(region.Min.X, y, region.Max.X, y+1)
		draw.Draw(dst, row, &image.Uniform{color.NRGBA{0, 0, 0, rowAlpha}}, image.Point{}, draw.Over)
	}
}

// drawVocabulary paints the term/gloss overlay panel in the top-left,
// clear of the scene badge in the top-right.
func (r *Renderer) drawVocabulary(dst *image.RGBA, vocab []scene.VocabEntry) {
	bounds := dst.Bounds()
	maxTextWidth := int(float64(bounds.Dx()) * 0.42)
	lineHeight := int(r.cfg.VocabSize * 1.5)
	padding := int(r.cfg.VocabSize * 0.8)
	margin := int(r.cfg.VocabSize)

	lines := make([]string, 0, len(vocab))
	panelW := 0
	for _, v := range vocab {
		line := truncateToWidth(v.Term+" — "+v.Gloss, r.vocabFace, maxTextWidth)
		if w := font.MeasureString(r.vocabFace, line).Ceil(); w > panelW {
			panelW = w
		}
		lines = append(lines, line)
	}

	panel := image.Rect(
		bounds.Min.X+margin,
		bounds.Min.Y+margin,
		bounds.Min.X+margin+panelW+2*padding,
		bounds.Min.Y+margin+len(lines)*lineHeight+2*padding,
	)
	fillRoundedRect(dst, panel, int(r.cfg.VocabSize*0.6), color.NRGBA{0, 0, 0, 150})

	textCol := color.NRGBA{255, 255, 255, 235}
	y := panel.Min.Y + padding + ascent(r.vocabFace)
	for _, line := range lines {
		drawString(dst, r.vocabFace, line, panel.Min.X+padding, y, textCol)
		y += lineHeight
	}
}

// drawBadge paints the "current/total" pill in the top-right corner.
func (r *Renderer) drawBadge(dst *image.RGBA, index, count int) {
	if count <= 0 {
		return
	}
	bounds := dst.Bounds()
	label := fmt.Sprintf("%d/%d", index+1, count)

	textW := font.MeasureString(r.badgeFace, label).Ceil()
	padX := int(r.cfg.BadgeSize * 0.9)
	padY := int(r.cfg.BadgeSize * 0.45)
	margin := int(r.cfg.BadgeSize)
	h := ascent(r.badgeFace) + descent(r.badgeFace) + 2*padY

	pill := image.Rect(
		bounds.Max.X-margin-textW-2*padX,
		bounds.Min.Y+margin,
		bounds.Max.X-margin,
		bounds.Min.Y+margin+h,
	)
	fillRoundedRect(dst, pill, h/2, color.NRGBA{0, 0, 0, 110})
	drawString(dst, r.badgeFace, label,
		pill.Min.X+padX, pill.Min.Y+padY+ascent(r.badgeFace),
		color.NRGBA{255, 255, 255, 200})
}

// ── drawing helpers ──

func drawString(dst *image.RGBA, face font.Face, text string, x, y int, col color.NRGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// drawOutlinedString strokes the text by stamping it offset in all eight
// directions before filling the center, a cheap legibility outline.
func drawOutlinedString(dst *image.RGBA, face font.Face, text string, x, y int, stroke, fill color.NRGBA) {
	const d = 2
	for dx := -d; dx <= d; dx += d {
		for dy := -d; dy <= d; dy += d {
			if dx == 0 && dy == 0 {
				continue
			}
			drawString(dst, face, text, x+dx, y+dy, stroke)
		}
	}
	drawString(dst, face, text, x, y, fill)
}

// fillRoundedRect fills rect with rounded corners of the given radius.
func fillRoundedRect(dst *image.RGBA, rect image.Rectangle, radius int, col color.NRGBA) {
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	if radius > rect.Dy()/2 {
		radius = rect.Dy() / 2
	}
	if radius > rect.Dx()/2 {
		radius = rect.Dx() / 2
	}
	src := &image.Uniform{col}

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		inset := 0
		if dy := cornerDY(y, rect, radius); dy >= 0 {
			inset = radius - isqrt(radius*radius-dy*dy)
		}
		row := image.Rect(rect.Min.X+inset, y, rect.Max.X-inset, y+1)
		draw.Draw(dst, row, src, image.Point{}, draw.Over)
	}
}

// cornerDY returns the vertical distance into a rounded corner for row y,
// or -1 when the row crosses the straight middle section.
func cornerDY(y int, rect image.Rectangle, radius int) int {
	if y < rect.Min.Y+radius {
		return rect.Min.Y + radius - 1 - y
	}
	if y >= rect.Max.Y-radius {
		return y - (rect.Max.Y - radius)
	}
	return -1
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	x := n
	for {
		next := (x + n/x) / 2
		if next >= x {
			return x
		}
		x = next
	}
}

func truncateToWidth(text string, face font.Face, maxWidth int) string {
	if font.MeasureString(face, text).Ceil() <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "…"
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			return candidate
		}
	}
	return "…"
}

func visibleLines(lines []string) []string {
	out := lines[:0:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func ascent(face font.Face) int  { return face.Metrics().Ascent.Ceil() }
func descent(face font.Face) int { return face.Metrics().Descent.Ceil() }
