package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/JaeGeun1978/storycast/pkg/container"
	"github.com/JaeGeun1978/storycast/pkg/media"
	"github.com/JaeGeun1978/storycast/pkg/store"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	st, err := store.New(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return New(st, Config{Port: 8080, DataDir: "unused"}, zap.NewNop())
}

func doJSON(t *testing.T, h http.Handler, method, path string, body []byte, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return rec
}

func TestProjectLifecycle(t *testing.T) {
	h := newTestServer(t)

	var created struct{ ID string }
	if rec := doJSON(t, h, "POST", "/api/projects", nil, &created); rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	if created.ID == "" {
		t.Fatal("no project id returned")
	}

	var listed struct{ Projects []string }
	doJSON(t, h, "GET", "/api/projects", nil, &listed)
	if len(listed.Projects) != 1 || listed.Projects[0] != created.ID {
		t.Fatalf("list = %v", listed.Projects)
	}

	if rec := doJSON(t, h, "DELETE", "/api/projects/"+created.ID, nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	doJSON(t, h, "GET", "/api/projects", nil, &listed)
	if len(listed.Projects) != 0 {
		t.Fatalf("list after delete = %v", listed.Projects)
	}
}

func TestUploadRenderDownload(t *testing.T) {
	h := newTestServer(t)

	var created struct{ ID string }
	doJSON(t, h, "POST", "/api/projects", nil, &created)

	var img bytes.Buffer
	if err := png.Encode(&img, media.Placeholder(64, 64)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	audio := container.WAVBytes(make([]int16, 8000), 8000)

	if rec := doJSON(t, h, "PUT", "/api/projects/"+created.ID+"/scenes/0/image", img.Bytes(), nil); rec.Code != http.StatusOK {
		t.Fatalf("upload image: %d %s", rec.Code, rec.Body)
	}
	if rec := doJSON(t, h, "PUT", "/api/projects/"+created.ID+"/scenes/0/audio", audio, nil); rec.Code != http.StatusOK {
		t.Fatalf("upload audio: %d %s", rec.Code, rec.Body)
	}

	body, _ := json.Marshal(renderRequest{
		Scenes: []renderScene{{Caption: "A single scene."}},
		Width:  160, Height: 90, FPS: 5,
	})
	var rendered renderResponse
	if rec := doJSON(t, h, "POST", "/api/projects/"+created.ID+"/render", body, &rendered); rec.Code != http.StatusOK {
		t.Fatalf("render: %d %s", rec.Code, rec.Body)
	}
	if rendered.Duration <= 0 || rendered.Frames == 0 {
		t.Fatalf("render response = %+v", rendered)
	}

	req := httptest.NewRequest("GET", rendered.VideoURL, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("download: %d", rec.Code)
	}
	blob := rec.Body.Bytes()
	if len(blob) < 12 || string(blob[0:4]) != "RIFF" || string(blob[8:12]) != "AVI " {
		t.Fatal("downloaded blob is not an AVI")
	}
}

func TestRenderRejectsEmptySceneList(t *testing.T) {
	h := newTestServer(t)
	var created struct{ ID string }
	doJSON(t, h, "POST", "/api/projects", nil, &created)

	rec := doJSON(t, h, "POST", "/api/projects/"+created.ID+"/render", []byte(`{"scenes":[]}`), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestUploadRejectsBadKeys(t *testing.T) {
	h := newTestServer(t)
	var created struct{ ID string }
	doJSON(t, h, "POST", "/api/projects", nil, &created)

	if rec := doJSON(t, h, "PUT", "/api/projects/not-a-uuid/scenes/0/image", []byte("x"), nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad project id: %d", rec.Code)
	}
	if rec := doJSON(t, h, "PUT", "/api/projects/"+created.ID+"/scenes/0/image", nil, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty body: %d", rec.Code)
	}
}

func TestVoices(t *testing.T) {
	h := newTestServer(t)

	var resp struct {
		Language string
		Voices   []struct{ ID string }
	}
	if rec := doJSON(t, h, "GET", "/api/voices?lang=en", nil, &resp); rec.Code != http.StatusOK {
		t.Fatalf("voices: %d", rec.Code)
	}
	if resp.Language != "en" || len(resp.Voices) == 0 {
		t.Fatalf("voices response = %+v", resp)
	}
	for _, v := range resp.Voices {
		if !strings.HasPrefix(v.ID, "en-") {
			t.Fatalf("voice %q for lang en", v.ID)
		}
	}
}
