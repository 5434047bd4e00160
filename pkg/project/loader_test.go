package project

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/JaeGeun1978/storycast/pkg/frame"
)

const testManifest = `{
  "meta": { "title": "t" },
  "output": { "preset": "720p" },
  "render": { "layout": "split", "dividerFraction": 0.6 },
  "scenes": [
    { "caption": "One.", "image": "assets/a.png", "audio": "assets/a.wav" },
    { "caption": "Two.", "image": "assets/missing.png" }
  ]
}`

// writeStoryZip builds a .story file with the given entries.
func writeStoryZip(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.story")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func TestLoadBundle(t *testing.T) {
	path := writeStoryZip(t, map[string][]byte{
		"project.json": []byte(testManifest),
		"assets/a.png": []byte("png bytes"),
		"assets/a.wav": []byte("wav bytes"),
	})

	b, err := LoadBundle(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if b.Manifest.Output.Width != 1280 || b.Manifest.Output.Height != 720 {
		t.Fatalf("preset not applied: %dx%d", b.Manifest.Output.Width, b.Manifest.Output.Height)
	}
	if b.Manifest.Output.FPS != 30 {
		t.Fatalf("fps default = %d", b.Manifest.Output.FPS)
	}

	scenes, warnings := b.Scenes()
	if len(scenes) != 2 {
		t.Fatalf("got %d scenes", len(scenes))
	}
	if string(scenes[0].Image) != "png bytes" || string(scenes[0].Audio) != "wav bytes" {
		t.Fatal("scene 0 assets not resolved")
	}
	if scenes[1].Image != nil {
		t.Fatal("missing asset should resolve to nil")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "missing.png") {
		t.Fatalf("warnings = %v", warnings)
	}
}

func TestLoadBundleRequiresManifest(t *testing.T) {
	path := writeStoryZip(t, map[string][]byte{"assets/a.png": []byte("x")})
	if _, err := LoadBundle(path); err == nil {
		t.Fatal("expected error for bundle without project.json")
	}
}

func TestRenderOptionsMapping(t *testing.T) {
	path := writeStoryZip(t, map[string][]byte{"project.json": []byte(testManifest)})
	b, err := LoadBundle(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	opts := b.RenderOptions(zap.NewNop())
	if opts.Width != 1280 || opts.FPS != 30 {
		t.Fatalf("options = %+v", opts)
	}
	if opts.Layout.Kind != frame.LayoutSplitPanel || opts.Layout.DividerFraction != 0.6 {
		t.Fatalf("layout = %+v", opts.Layout)
	}
}

func TestValidate(t *testing.T) {
	path := writeStoryZip(t, map[string][]byte{
		"project.json": []byte(`{"scenes":[{"image":"a.png"}]}`),
	})
	b, err := LoadBundle(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	warnings, err := b.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	// Silent scene plus missing image asset.
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v", warnings)
	}

	empty := writeStoryZip(t, map[string][]byte{"project.json": []byte(`{"scenes":[]}`)})
	b, err = LoadBundle(empty)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := b.Validate(); err == nil {
		t.Fatal("empty scene list must be fatal")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "project.json"), []byte(testManifest), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "a.png"), []byte("png bytes"), 0644); err != nil {
		t.Fatalf("write asset: %v", err)
	}

	b, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if data, ok := b.Asset("assets/a.png"); !ok || string(data) != "png bytes" {
		t.Fatal("directory asset not loaded")
	}
	if _, ok := b.Asset("assets/a.wav"); ok {
		t.Fatal("absent file should not appear as an asset")
	}
}
