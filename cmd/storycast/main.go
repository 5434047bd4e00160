// storycast — Narrated slideshow video compositor.
//
// Usage:
//
//	storycast render --project <path> -o <file.avi> [options]
//	storycast init [--dir <path>]
//	storycast voices [--lang ko]
//	storycast serve
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/JaeGeun1978/storycast/clients/server"
	"github.com/JaeGeun1978/storycast/pkg/imagegen"
	"github.com/JaeGeun1978/storycast/pkg/project"
	"github.com/JaeGeun1978/storycast/pkg/render"
	"github.com/JaeGeun1978/storycast/pkg/tts"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "render":
		if err := runRender(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "init":
		if err := runInit(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "voices":
		if err := runVoices(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "serve":
		if err := runServe(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)

	var (
		projectPath string
		output      string
		stubTTS     bool
		stubImages  bool
		verbose     bool
	)

	fs.StringVar(&projectPath, "project", "", "Path to .story bundle or project directory")
	fs.StringVar(&output, "o", "story.avi", "Output file path (.avi)")
	fs.StringVar(&output, "output", "story.avi", "Output file path (.avi)")
	fs.BoolVar(&stubTTS, "stub-tts", false, "Fill missing audio with silent placeholder narration")
	fs.BoolVar(&stubImages, "stub-images", false, "Fill missing images with generated placeholders")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if projectPath == "" {
		return fmt.Errorf("project path is required (--project)")
	}

	logger, err := buildLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Load bundle or unpacked directory.
	var bundle *project.Bundle
	if strings.EqualFold(filepath.Ext(projectPath), ".story") {
		bundle, err = project.LoadBundle(projectPath)
	} else {
		bundle, err = project.LoadDir(projectPath)
	}
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}

	warnings, err := bundle.Validate()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	scenes, _ := bundle.Scenes()
	opts := bundle.RenderOptions(logger)

	// A bundled font lives in memory; the renderer wants a file path.
	if fp := bundle.Manifest.Render.FontPath; fp != "" {
		if data, ok := bundle.Asset(fp); ok {
			tmpFont := filepath.Join(os.TempDir(), "storycast-font.ttf")
			if err := os.WriteFile(tmpFont, data, 0644); err != nil {
				return fmt.Errorf("extract font: %w", err)
			}
			defer os.Remove(tmpFont)
			opts.FontPath = tmpFont
		}
	}

	// Optional placeholder assets via the stub collaborators.
	ctx := context.Background()
	if stubTTS {
		synth := tts.NewStubSynthesizer(nil)
		for i := range scenes {
			if scenes[i].Audio == nil && scenes[i].CaptionText != "" {
				blob, err := synth.Synthesize(ctx, scenes[i].CaptionText, tts.VoiceProfile{})
				if err != nil {
					return fmt.Errorf("stub narration for scene %d: %w", i, err)
				}
				scenes[i].Audio = blob
			}
		}
	}
	if stubImages {
		gen := imagegen.NewStubGenerator()
		for i := range scenes {
			if scenes[i].Image == nil {
				blob, err := gen.Generate(ctx, scenes[i].CaptionText, opts.Width, opts.Height)
				if err != nil {
					return fmt.Errorf("stub image for scene %d: %w", i, err)
				}
				scenes[i].Image = blob
			}
		}
	}

	opts.Progress = func(percent float64, status string) {
		fmt.Fprintf(os.Stderr, "\r%5.1f%%  %-10s", percent, status)
	}

	// Ctrl-C trips the stop latch so the partial video still finalizes.
	sess := render.NewSession(opts)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nStopping, finalizing partial video")
		sess.Stop()
	}()
	defer signal.Stop(sigCh)

	fmt.Printf("Rendering: %s (%d scenes)\n", projectPath, len(scenes))
	res, err := sess.Render(ctx, scenes)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr)

	if err := os.WriteFile(output, res.Video, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	fmt.Printf("Done: %s (%.1fs, %d frames", output, res.Duration, res.Frames)
	if res.Truncated {
		fmt.Print(", truncated")
	}
	fmt.Println(")")
	return nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var dir string
	fs.StringVar(&dir, "dir", "my-story", "Directory for the new project")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0755); err != nil {
		return fmt.Errorf("create project dir: %w", err)
	}
	manifestPath := filepath.Join(dir, "project.json")
	if err := os.WriteFile(manifestPath, []byte(project.ExampleManifestJSON()), 0644); err != nil {
		return fmt.Errorf("write project.json: %w", err)
	}

	fmt.Printf("Created: %s\n", manifestPath)
	fmt.Println("Drop scene assets into", filepath.Join(dir, "assets"))
	fmt.Printf("Run: storycast render --project %s -o story.avi --stub-tts --stub-images\n", dir)
	return nil
}

func runVoices(args []string) error {
	fs := flag.NewFlagSet("voices", flag.ExitOnError)
	var lang string
	fs.StringVar(&lang, "lang", "ko", "Language code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	synth := tts.NewStubSynthesizer(nil)
	voices := synth.AvailableVoices(lang)
	if len(voices) == 0 {
		fmt.Printf("No voices for language %q\n", lang)
		return nil
	}
	for _, v := range voices {
		fmt.Printf("%-10s %-20s %s/%s\n", v.ID, v.Name, v.Language, v.Gender)
	}
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var verbose bool
	fs.BoolVar(&verbose, "v", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := buildLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	return server.RunServe(logger)
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`storycast — Narrated Slideshow Video Compositor

USAGE:
    storycast render --project <path> -o <file.avi> [options]
    storycast init [--dir <path>]
    storycast voices [--lang ko]
    storycast serve [-v]

RENDER OPTIONS:
    --project <path>      .story bundle or unpacked project directory
    -o, --output <path>   Output file (default: story.avi)
    --stub-tts            Fill missing narration with silent placeholders
    --stub-images         Fill missing images with generated placeholders
    -v                    Verbose logging

INIT OPTIONS:
    --dir <path>          Project directory to create (default: my-story)

SERVER:
    storycast serve       Start the HTTP API (STORYCAST_PORT, STORYCAST_DATA_DIR)

EXAMPLES:
    storycast init --dir my-story
    storycast render --project my-story -o story.avi --stub-tts --stub-images
    storycast render --project bundle.story -o story.avi
    storycast voices --lang en
    storycast serve
`)
}
