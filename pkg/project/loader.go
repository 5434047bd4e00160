// loader.go — Load .story (ZIP) bundles and parse project.json.
package project

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/JaeGeun1978/storycast/pkg/frame"
	"github.com/JaeGeun1978/storycast/pkg/render"
	"github.com/JaeGeun1978/storycast/pkg/scene"
)

// Bundle is a loaded .story project: the parsed manifest plus every
// asset file read into memory.
type Bundle struct {
	Manifest Manifest
	assets   map[string][]byte
}

// LoadBundle opens a .story ZIP, parses project.json, applies manifest
// defaults, and reads all asset entries into memory.
func LoadBundle(bundlePath string) (*Bundle, error) {
	r, err := zip.OpenReader(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", bundlePath, err)
	}
	defer r.Close()

	b := &Bundle{assets: make(map[string][]byte)}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readZipEntry(f)
		if err != nil {
			return nil, fmt.Errorf("read %s from %s: %w", f.Name, bundlePath, err)
		}
		// Normalized names so "assets/img.png" and "./assets/img.png" collide.
		b.assets[path.Clean(f.Name)] = data
	}

	manifest, ok := b.assets["project.json"]
	if !ok {
		return nil, fmt.Errorf("%s has no project.json", bundlePath)
	}
	if err := json.Unmarshal(manifest, &b.Manifest); err != nil {
		return nil, fmt.Errorf("parse project.json: %w", err)
	}
	delete(b.assets, "project.json")

	applyManifestDefaults(&b.Manifest)
	return b, nil
}

// LoadDir builds a bundle from an unpacked project directory containing
// project.json. Assets referenced by the manifest are read relative to
// the directory; unreferenced files are left on disk.
func LoadDir(dir string) (*Bundle, error) {
	m, err := LoadManifestFile(filepath.Join(dir, "project.json"))
	if err != nil {
		return nil, err
	}

	b := &Bundle{Manifest: *m, assets: make(map[string][]byte)}
	load := func(name string) {
		if name == "" {
			return
		}
		clean := path.Clean(name)
		if _, ok := b.assets[clean]; ok {
			return
		}
		if data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(clean))); err == nil {
			b.assets[clean] = data
		}
	}
	for _, entry := range m.Scenes {
		load(entry.Image)
		load(entry.Audio)
	}
	load(m.Render.FontPath)
	return b, nil
}

// LoadManifestFile parses a standalone project.json (for working without
// a ZIP; asset names are then resolved by the caller).
func LoadManifestFile(manifestPath string) (*Manifest, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read project.json: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse project.json: %w", err)
	}
	applyManifestDefaults(&m)
	return &m, nil
}

// applyManifestDefaults resolves the output preset and fills zero values.
func applyManifestDefaults(m *Manifest) {
	if dims, ok := OutputPresets[m.Output.Preset]; ok {
		m.Output.Width = dims[0]
		m.Output.Height = dims[1]
	}
	if m.Output.Width <= 0 {
		m.Output.Width = 1280
	}
	if m.Output.Height <= 0 {
		m.Output.Height = 720
	}
	if m.Output.FPS <= 0 {
		m.Output.FPS = 30
	}
	if m.Render.Layout == "" {
		m.Render.Layout = "bottom"
	}
}

// Asset returns a bundle file by its (cleaned) name.
func (b *Bundle) Asset(name string) ([]byte, bool) {
	data, ok := b.assets[path.Clean(name)]
	return data, ok
}

// Scenes resolves the manifest's scene entries into renderable scenes.
// Missing asset references degrade to nil blobs and come back as
// warnings; the render pipeline substitutes placeholders downstream.
func (b *Bundle) Scenes() ([]scene.Scene, []string) {
	var warnings []string
	scenes := make([]scene.Scene, 0, len(b.Manifest.Scenes))
	for i, entry := range b.Manifest.Scenes {
		sc := scene.Scene{
			CaptionText: entry.Caption,
			Vocabulary:  entry.Vocabulary,
		}
		if entry.Image != "" {
			if data, ok := b.Asset(entry.Image); ok {
				sc.Image = data
			} else {
				warnings = append(warnings, fmt.Sprintf("scene %d: image %q not in bundle", i, entry.Image))
			}
		}
		if entry.Audio != "" {
			if data, ok := b.Asset(entry.Audio); ok {
				sc.Audio = data
			} else {
				warnings = append(warnings, fmt.Sprintf("scene %d: audio %q not in bundle", i, entry.Audio))
			}
		}
		scenes = append(scenes, sc)
	}
	return scenes, warnings
}

// RenderOptions maps the manifest onto render options.
func (b *Bundle) RenderOptions(logger *zap.Logger) render.Options {
	m := b.Manifest
	opts := render.Options{
		Width:       m.Output.Width,
		Height:      m.Output.Height,
		FPS:         m.Output.FPS,
		PadSeconds:  m.Render.PadSeconds,
		FadeSeconds: m.Render.FadeSeconds,
		Logger:      logger,
	}
	if m.Render.Layout == "split" {
		opts.Layout = frame.Layout{Kind: frame.LayoutSplitPanel, DividerFraction: m.Render.DividerFraction}
	}
	return opts
}

// Validate checks the manifest for problems. An empty scene list is the
// only fatal condition; everything else degrades with a warning.
func (b *Bundle) Validate() ([]string, error) {
	if len(b.Manifest.Scenes) == 0 {
		return nil, fmt.Errorf("project has no scenes")
	}
	var warnings []string
	for i, entry := range b.Manifest.Scenes {
		if entry.Caption == "" && entry.Audio == "" {
			warnings = append(warnings, fmt.Sprintf("scene %d: no caption and no audio, will render silent", i))
		}
	}
	_, missing := b.Scenes()
	warnings = append(warnings, missing...)
	return warnings, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
