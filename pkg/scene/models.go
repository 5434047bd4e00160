// Package scene defines the input data model for a slideshow render:
// an ordered list of scenes, each pairing one image, one narration track,
// and the caption source text.
package scene

// VocabEntry is a term/gloss pair shown in the optional vocabulary overlay.
type VocabEntry struct {
	Term  string `json:"term"`
	Gloss string `json:"gloss"`
}

// Scene is one unit of narration. Image and Audio are raw encoded blobs
// (PNG/JPEG/GIF/WebP and WAV/MP3 respectively); either may be malformed or
// empty — the loader degrades rather than failing the render.
// A Scene is immutable once passed to the renderer.
type Scene struct {
	Image       []byte       `json:"-"`
	Audio       []byte       `json:"-"`
	CaptionText string       `json:"caption"`
	Vocabulary  []VocabEntry `json:"vocabulary,omitempty"`
}
