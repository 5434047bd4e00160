// envelope.go — Caption fade envelope: a short linear ease-in/ease-out at
// the edges of each chunk's active window so text never cuts abruptly.
package render

// fadeAlpha returns the caption opacity at elapsed seconds into a chunk
// window of the given length. The fade span is clamped to half the window
// so very short chunks still reach full opacity at their midpoint.
func fadeAlpha(elapsed, window, fade float64) float64 {
	if window <= 0 {
		return 1
	}
	if fade > window/2 {
		fade = window / 2
	}
	if fade <= 0 {
		return 1
	}

	switch {
	case elapsed <= 0 || elapsed >= window:
		return 0
	case elapsed < fade:
		return elapsed / fade
	case elapsed > window-fade:
		return (window - elapsed) / fade
	default:
		return 1
	}
}
