package store

import (
	"bytes"
	"testing"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestPutGetRoundtrip(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateProject()
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	img := []byte("image bytes")
	audio := []byte("audio bytes")
	if err := s.Put(id, 0, MediaImage, img); err != nil {
		t.Fatalf("put image: %v", err)
	}
	if err := s.Put(id, 0, MediaAudio, audio); err != nil {
		t.Fatalf("put audio: %v", err)
	}

	got, err := s.Get(id, 0, MediaImage)
	if err != nil {
		t.Fatalf("get image: %v", err)
	}
	if !bytes.Equal(got, img) {
		t.Fatal("image blob mismatch")
	}
	if !s.Has(id, 0, MediaAudio) {
		t.Fatal("audio slot should be populated")
	}
	if s.Has(id, 1, MediaAudio) {
		t.Fatal("empty slot reported as populated")
	}
}

func TestPutOverwrites(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.CreateProject()

	if err := s.Put(id, 2, MediaImage, []byte("first")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(id, 2, MediaImage, []byte("second")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(id, 2, MediaImage)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("got %q after overwrite", got)
	}
}

func TestSceneCount(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.CreateProject()

	if n, err := s.SceneCount(id); err != nil || n != 0 {
		t.Fatalf("empty project count = %d, %v", n, err)
	}
	s.Put(id, 0, MediaImage, []byte("a"))
	s.Put(id, 4, MediaAudio, []byte("b"))
	n, err := s.SceneCount(id)
	if err != nil {
		t.Fatalf("scene count: %v", err)
	}
	if n != 5 {
		t.Fatalf("count = %d, want 5 (highest slot + 1)", n)
	}
}

func TestVideoRoundtrip(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.CreateProject()

	if err := s.PutVideo(id, []byte("RIFFxxxxAVI ")); err != nil {
		t.Fatalf("put video: %v", err)
	}
	got, err := s.GetVideo(id)
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if string(got[:4]) != "RIFF" {
		t.Fatal("video blob mismatch")
	}
}

func TestListAndDelete(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.CreateProject()
	b, _ := s.CreateProject()

	ids, err := s.ListProjects()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("listed %d projects, want 2", len(ids))
	}

	if err := s.DeleteProject(a); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ids, _ = s.ListProjects()
	if len(ids) != 1 || ids[0] != b {
		t.Fatalf("after delete, list = %v", ids)
	}
}

func TestRejectsInvalidKeys(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.CreateProject()

	if err := s.Put("../escape", 0, MediaImage, nil); err == nil {
		t.Fatal("non-UUID project id must be rejected")
	}
	if err := s.Put(id, -1, MediaImage, nil); err == nil {
		t.Fatal("negative scene id must be rejected")
	}
	if err := s.Put(id, 0, MediaType("weird"), nil); err == nil {
		t.Fatal("unknown media type must be rejected")
	}
}
