// validator.go — Pre-render validation of scene lists.
package scene

import (
	"errors"
	"fmt"
)

// ErrNoScenes is returned when a render is requested with an empty scene list.
var ErrNoScenes = errors.New("scene list is empty")

// Validate checks a scene list before rendering. An empty list is fatal;
// per-scene issues (missing image, missing audio) are returned as warnings
// only, since the renderer substitutes placeholders and estimated silence.
func Validate(scenes []Scene) ([]string, error) {
	if len(scenes) == 0 {
		return nil, ErrNoScenes
	}

	var warnings []string
	for i, s := range scenes {
		if len(s.Image) == 0 {
			warnings = append(warnings, fmt.Sprintf("scene %d has no image — a placeholder will be used", i))
		}
		if len(s.Audio) == 0 {
			warnings = append(warnings, fmt.Sprintf("scene %d has no audio — duration will be estimated from text", i))
		}
		if s.CaptionText == "" && len(s.Audio) == 0 {
			warnings = append(warnings, fmt.Sprintf("scene %d has neither caption text nor audio", i))
		}
	}

	return warnings, nil
}
