// session.go — The render state machine: Loading → Scheduled → Recording →
// Stopping → Done, with unconditional teardown on every exit path.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/JaeGeun1978/storycast/pkg/caption"
	"github.com/JaeGeun1978/storycast/pkg/container"
	"github.com/JaeGeun1978/storycast/pkg/frame"
	"github.com/JaeGeun1978/storycast/pkg/media"
	"github.com/JaeGeun1978/storycast/pkg/mixer"
	"github.com/JaeGeun1978/storycast/pkg/scene"
	"github.com/JaeGeun1978/storycast/pkg/timeline"
)

// Progress band boundaries (percent).
const (
	loadingShare = 10.0
	recordShare  = 85.0
)

// Session owns the state of one render call. Sessions are single-use and
// never shared between renders, so parallel renders cannot contaminate each
// other. Stop may be called from any goroutine; it is idempotent and makes
// the frame loop finalize a (possibly truncated) output at the next tick.
type Session struct {
	opts     Options
	stopOnce sync.Once
	stopped  atomic.Bool
}

// NewSession creates a session with normalized options.
func NewSession(opts Options) *Session {
	return &Session{opts: opts.withDefaults()}
}

// Stop requests an early finalize. Safe to call repeatedly and concurrently
// with the render loop; the second and later calls are no-ops.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
	})
}

// Stopped reports whether the stop latch has fired.
func (s *Session) Stopped() bool {
	return s.stopped.Load()
}

// Result is the finished recording.
type Result struct {
	Video     []byte // complete AVI blob (MJPEG + PCM)
	Duration  float64
	Timeline  []timeline.Entry
	Frames    int
	Truncated bool // stopped or safety-bounded before the natural end
}

// Render is the one-shot convenience wrapper around a fresh session.
func Render(ctx context.Context, scenes []scene.Scene, opts Options) (*Result, error) {
	return NewSession(opts).Render(ctx, scenes)
}

// Render runs the full pipeline. Scene-level decode problems degrade into
// placeholders and silence; only setup failures, validation failures, and
// context cancellation reject the render.
func (s *Session) Render(ctx context.Context, scenes []scene.Scene) (*Result, error) {
	// The stop latch doubles as the teardown marker: set on every exit.
	defer s.Stop()

	warnings, err := scene.Validate(scenes)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		s.opts.Logger.Warn(w)
	}

	log := s.opts.Logger
	log.Info("render starting",
		zap.Int("scenes", len(scenes)),
		zap.Int("width", s.opts.Width),
		zap.Int("height", s.opts.Height),
		zap.Int("fps", s.opts.FPS),
	)

	// Loading.
	s.opts.Progress(0, "loading")
	loaded, err := s.loadScenes(ctx, scenes)
	if err != nil {
		return nil, fmt.Errorf("load scenes: %w", err)
	}

	// Scheduled: timeline, canvas, muxer.
	durations := make([]float64, len(loaded))
	for i, ls := range loaded {
		durations[i] = ls.clip.Duration
	}
	tl := timeline.Build(durations, s.opts.PadSeconds)
	total := timeline.Total(tl)

	renderer, err := frame.NewRenderer(frame.Config{
		Width:    s.opts.Width,
		Height:   s.opts.Height,
		FontPath: s.opts.FontPath,
		Layout:   s.opts.Layout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	writer := container.NewAVIWriter(s.opts.Width, s.opts.Height, s.opts.FPS, s.opts.SampleRate)
	canvas := renderer.NewCanvas()

	// Paint one static frame up front so the first recorded frame is never
	// blank even if the loop is stopped immediately.
	s.paintAt(canvas, renderer, loaded, tl, 0)
	s.opts.Progress(loadingShare, "scheduled")

	// Recording.
	fps := float64(s.opts.FPS)
	totalFrames := int(math.Ceil(total * fps))
	maxFrames := int(math.Ceil((total + s.opts.SafetyMarginSeconds) * fps))
	framesWritten := 0
	truncated := false

	for i := 0; i < maxFrames; i++ {
		if cerr := ctx.Err(); cerr != nil {
			return nil, fmt.Errorf("render cancelled after %d frames: %w", framesWritten, cerr)
		}
		if s.stopped.Load() {
			truncated = framesWritten < totalFrames
			log.Warn("render stopped early", zap.Int("frames", framesWritten))
			break
		}

		t := float64(i) / fps
		if t >= total {
			break
		}

		s.paintAt(canvas, renderer, loaded, tl, t)
		if err := writer.AddFrame(canvas); err != nil {
			return nil, fmt.Errorf("record frame: %w", err)
		}
		framesWritten++
		s.opts.Progress(loadingShare+recordShare*t/total, "recording")
	}
	if framesWritten == maxFrames && maxFrames > totalFrames {
		// Safety bound fired: forward progress is guaranteed even if the
		// timing math above ever stalls. Not an error.
		truncated = true
		log.Warn("safety frame bound reached", zap.Int("frames", framesWritten))
	}
	if framesWritten == 0 {
		if err := writer.AddFrame(canvas); err != nil {
			return nil, fmt.Errorf("record initial frame: %w", err)
		}
		framesWritten = 1
		truncated = true
	}

	// Stopping: trim the master track to the recorded frame span so audio
	// and video stay the same length even on a truncated stop.
	s.opts.Progress(loadingShare+recordShare, "stopping")
	master := s.mixMaster(loaded, tl)
	audioLen := int(float64(framesWritten) / fps * float64(s.opts.SampleRate))
	if audioLen > len(master) {
		audioLen = len(master)
	}
	writer.SetAudio(master[:audioLen])

	// Done.
	var buf bytes.Buffer
	if err := writer.Finalize(&buf); err != nil {
		return nil, fmt.Errorf("finalize video: %w", err)
	}
	s.opts.Progress(100, "done")
	log.Info("render complete",
		zap.Float64("seconds", total),
		zap.Int("frames", framesWritten),
		zap.Int("bytes", buf.Len()),
		zap.Bool("truncated", truncated),
	)

	return &Result{
		Video:     buf.Bytes(),
		Duration:  total,
		Timeline:  tl,
		Frames:    framesWritten,
		Truncated: truncated,
	}, nil
}

// mixMaster schedules every decoded clip at its timeline offset. All
// scheduling happens in one pass against the same anchor (sample zero) the
// frame loop uses, immediately before the container is finalized.
func (s *Session) mixMaster(loaded []*loadedScene, tl []timeline.Entry) []int16 {
	clips := make([]*media.AudioClip, len(loaded))
	for i, ls := range loaded {
		clips[i] = ls.clip
	}
	return mixer.Mix(clips, tl, s.opts.SampleRate)
}

// paintAt renders the frame for absolute time t into canvas.
func (s *Session) paintAt(canvas *image.RGBA, renderer *frame.Renderer, loaded []*loadedScene, tl []timeline.Entry, t float64) {
	idx := timeline.At(tl, t)
	if idx < 0 || idx >= len(loaded) {
		return
	}
	entry := tl[idx]
	ls := loaded[idx]

	local := 0.0
	if entry.Duration > 0 {
		local = (t - entry.Start) / entry.Duration
	}
	if local < 0 {
		local = 0
	} else if local > 1 {
		local = 1
	}

	ci := chunkAt(ls.chunks, local)
	chunk := ls.chunks[ci]
	windowStart := chunk.StartFraction * entry.Duration
	window := (chunk.EndFraction - chunk.StartFraction) * entry.Duration
	alpha := fadeAlpha(local*entry.Duration-windowStart, window, s.opts.FadeSeconds)

	renderer.Paint(canvas, frame.Frame{
		Image:      ls.bitmap,
		Chunk:      chunk,
		Alpha:      alpha,
		SceneIndex: idx,
		SceneCount: len(loaded),
		Vocabulary: ls.vocab,
	})
}

// chunkAt locates the chunk covering a scene-local fraction, clamping to
// the last chunk past the end.
func chunkAt(chunks []caption.Chunk, local float64) int {
	for i, c := range chunks {
		if local < c.EndFraction {
			return i
		}
	}
	return len(chunks) - 1
}
