// layout.go — Layout variants for the frame renderer.
//
// The storybook and diary render paths share one renderer parameterized by
// layout instead of duplicating the drawing code.
package frame

// LayoutKind selects how a frame arranges image and caption.
type LayoutKind int

const (
	// LayoutBottomCaption covers the full canvas with the scene image and
	// anchors the caption over a gradient scrim at the bottom.
	LayoutBottomCaption LayoutKind = iota
	// LayoutSplitPanel puts the image above a horizontal divider and the
	// caption in a solid panel below it.
	LayoutSplitPanel
)

// Layout is the tagged layout configuration.
type Layout struct {
	Kind LayoutKind
	// DividerFraction is the image region's share of the canvas height for
	// LayoutSplitPanel (0 exclusive to 1 exclusive). Ignored otherwise.
	DividerFraction float64
}

// normalized clamps the divider into a sane range.
func (l Layout) normalized() Layout {
	if l.Kind == LayoutSplitPanel {
		if l.DividerFraction <= 0.1 || l.DividerFraction >= 0.95 {
			l.DividerFraction = 0.72
		}
	}
	return l
}
