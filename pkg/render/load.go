// load.go — Loading phase: resolve every scene into a drawable bitmap,
// a decoded (or estimated) audio clip, and pre-chunked captions.
package render

import (
	"context"
	"image"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JaeGeun1978/storycast/pkg/caption"
	"github.com/JaeGeun1978/storycast/pkg/media"
	"github.com/JaeGeun1978/storycast/pkg/scene"
)

// loadedScene is one scene resolved for rendering. The audio clip always
// carries a positive duration; its samples may be nil (renders silent).
type loadedScene struct {
	bitmap image.Image
	clip   *media.AudioClip
	chunks []caption.Chunk
	vocab  []scene.VocabEntry
}

// loadScenes resolves all scenes concurrently. Per-scene decode failures
// degrade inside the loaders and never surface here; only context
// cancellation aborts the phase. Progress covers the 0–10% band.
func (s *Session) loadScenes(ctx context.Context, scenes []scene.Scene) ([]*loadedScene, error) {
	loaded := make([]*loadedScene, len(scenes))

	// Progress is serialized and monotonic even though loads race.
	var mu sync.Mutex
	done := 0

	g, ctx := errgroup.WithContext(ctx)
	for i := range scenes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sc := scenes[i]
			ls := &loadedScene{
				bitmap: media.LoadImage(sc.Image, s.opts.Width, s.opts.Height, s.opts.Logger),
				clip:   media.LoadAudio(sc.Audio, sc.CaptionText, s.opts.Logger),
				chunks: caption.Split(sc.CaptionText, s.opts.Caption),
				vocab:  sc.Vocabulary,
			}
			loaded[i] = ls

			mu.Lock()
			done++
			s.opts.Progress(loadingShare*float64(done)/float64(len(scenes)), "loading")
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return loaded, nil
}
