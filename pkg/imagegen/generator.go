// Package imagegen defines the illustration-acquisition seam. Scene
// images arrive as encoded blobs; implementations wrap whatever image
// provider produces them.
package imagegen

import "context"

// Generator produces an encoded image (PNG) for a scene prompt.
type Generator interface {
	// Generate returns an encoded image blob for the prompt at the
	// requested dimensions.
	Generate(ctx context.Context, prompt string, width, height int) ([]byte, error)
}
