// Package store persists per-project media blobs on the local
// filesystem, keyed by (projectID, sceneID, mediaType).
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MediaType identifies what kind of blob a scene slot holds.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaAudio MediaType = "audio"
)

// videoName is the single rendered-output blob per project.
const videoName = "video.avi"

// Store is a filesystem-backed media store. Every project lives in its
// own directory named by its UUID.
type Store struct {
	root   string
	logger *zap.Logger
}

// New creates a store rooted at dir, creating it if needed.
func New(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store root %s: %w", dir, err)
	}
	return &Store{root: dir, logger: logger}, nil
}

// CreateProject mints a new project ID and its directory.
func (s *Store) CreateProject() (string, error) {
	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Join(s.root, id), 0755); err != nil {
		return "", fmt.Errorf("create project dir: %w", err)
	}
	s.logger.Info("project created", zap.String("project_id", id))
	return id, nil
}

// Put stores a media blob for one scene slot, overwriting any previous
// blob in that slot.
func (s *Store) Put(projectID string, sceneID int, mt MediaType, data []byte) error {
	path, err := s.mediaPath(projectID, sceneID, mt)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Get returns the blob stored in a scene slot.
func (s *Store) Get(projectID string, sceneID int, mt MediaType) ([]byte, error) {
	path, err := s.mediaPath(projectID, sceneID, mt)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Has reports whether a scene slot holds a blob.
func (s *Store) Has(projectID string, sceneID int, mt MediaType) bool {
	path, err := s.mediaPath(projectID, sceneID, mt)
	if err != nil {
		return false
	}
	_, statErr := os.Stat(path)
	return statErr == nil
}

// PutVideo stores the rendered output for a project.
func (s *Store) PutVideo(projectID string, data []byte) error {
	dir, err := s.projectDir(projectID)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, videoName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// GetVideo returns the rendered output for a project.
func (s *Store) GetVideo(projectID string) ([]byte, error) {
	dir, err := s.projectDir(projectID)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, videoName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// SceneCount returns the highest populated scene slot plus one, counting
// slots that hold either media type.
func (s *Store) SceneCount(projectID string) (int, error) {
	dir, err := s.projectDir(projectID)
	if err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read project dir: %w", err)
	}
	count := 0
	for _, e := range entries {
		var id int
		var mt string
		if _, err := fmt.Sscanf(e.Name(), "scene-%d-%s", &id, &mt); err == nil && id+1 > count {
			count = id + 1
		}
	}
	return count, nil
}

// ListProjects returns all project IDs in the store, sorted.
func (s *Store) ListProjects() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read store root: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			if _, err := uuid.Parse(e.Name()); err == nil {
				ids = append(ids, e.Name())
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteProject removes a project and all its blobs.
func (s *Store) DeleteProject(projectID string) error {
	dir, err := s.projectDir(projectID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.logger.Info("project deleted", zap.String("project_id", projectID))
	return nil
}

// projectDir validates the ID and returns the project directory. The
// UUID check doubles as a path-traversal guard.
func (s *Store) projectDir(projectID string) (string, error) {
	if _, err := uuid.Parse(projectID); err != nil {
		return "", fmt.Errorf("invalid project id %q: %w", projectID, err)
	}
	return filepath.Join(s.root, projectID), nil
}

func (s *Store) mediaPath(projectID string, sceneID int, mt MediaType) (string, error) {
	if sceneID < 0 {
		return "", fmt.Errorf("invalid scene id %d", sceneID)
	}
	switch mt {
	case MediaImage, MediaAudio:
	default:
		return "", fmt.Errorf("unknown media type %q", mt)
	}
	dir, err := s.projectDir(projectID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("scene-%03d-%s", sceneID, mt)), nil
}
