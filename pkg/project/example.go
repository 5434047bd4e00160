// example.go — Starter manifest for storycast init.
package project

// ExampleManifestJSON returns a sample project.json for a new project.
func ExampleManifestJSON() string {
	return `{
  "meta": {
    "title": "Sample Story",
    "version": "1.0",
    "author": "storycast",
    "description": "A three-scene starter project"
  },
  "output": { "preset": "720p", "fps": 30 },
  "render": {
    "padSeconds": 0.7,
    "fadeSeconds": 0.25,
    "layout": "bottom"
  },
  "scenes": [
    {
      "caption": "Once upon a time, a small fox lived at the edge of a snowy forest.",
      "image": "assets/scene-000.png",
      "audio": "assets/scene-000.wav"
    },
    {
      "caption": "Every morning it followed the frozen river, looking for something new.",
      "image": "assets/scene-001.png",
      "audio": "assets/scene-001.wav",
      "vocabulary": [
        { "term": "frozen", "gloss": "turned to ice by the cold" }
      ]
    },
    {
      "caption": "One day, it found a friend.",
      "image": "assets/scene-002.png",
      "audio": "assets/scene-002.wav"
    }
  ]
}`
}
