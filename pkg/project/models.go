// Package project provides .story bundle support: a ZIP holding
// project.json plus per-scene image and audio assets.
package project

import "github.com/JaeGeun1978/storycast/pkg/scene"

// Manifest is the top-level structure of a project.json file.
type Manifest struct {
	Meta   Meta         `json:"meta"`
	Output Output       `json:"output"`
	Render RenderConfig `json:"render"`
	Scenes []SceneEntry `json:"scenes"`
}

// Meta holds project metadata.
type Meta struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

// Output defines video dimensions and frame rate. Preset overrides
// explicit Width/Height.
type Output struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	FPS    int    `json:"fps"`
	Preset string `json:"preset"`
}

// RenderConfig carries the tunable composition parameters.
type RenderConfig struct {
	PadSeconds      float64 `json:"padSeconds"`
	FadeSeconds     float64 `json:"fadeSeconds"`
	Layout          string  `json:"layout"` // "bottom" (default) or "split"
	DividerFraction float64 `json:"dividerFraction"`
	FontPath        string  `json:"fontPath"` // custom TTF (resolved from assets)
}

// SceneEntry describes one scene: its narration text plus asset names
// referencing files inside the bundle.
type SceneEntry struct {
	Caption    string             `json:"caption"`
	Image      string             `json:"image"`
	Audio      string             `json:"audio"`
	Vocabulary []scene.VocabEntry `json:"vocabulary,omitempty"`
}

// OutputPresets maps preset names to [width, height].
var OutputPresets = map[string][2]int{
	"720p":   {1280, 720},
	"1080p":  {1920, 1080},
	"4k":     {3840, 2160},
	"square": {1080, 1080},
	"story":  {1080, 1920},
}
