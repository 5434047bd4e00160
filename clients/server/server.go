// Package server provides the storycast HTTP API: project lifecycle,
// per-scene asset upload, rendering, and video download.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/JaeGeun1978/storycast/pkg/frame"
	"github.com/JaeGeun1978/storycast/pkg/render"
	"github.com/JaeGeun1978/storycast/pkg/scene"
	"github.com/JaeGeun1978/storycast/pkg/store"
	"github.com/JaeGeun1978/storycast/pkg/tts"
)

// maxUploadBytes bounds a single asset upload.
const maxUploadBytes = 50 << 20

type srv struct {
	store  *store.Store
	voices tts.Synthesizer
	cfg    Config
	logger *zap.Logger
}

// New builds the API handler backed by the given store.
func New(st *store.Store, cfg Config, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &srv{
		store:  st,
		voices: tts.NewStubSynthesizer(nil),
		cfg:    cfg,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)
	mux.HandleFunc("PUT /api/projects/{id}/scenes/{n}/image", s.handleUploadAsset(store.MediaImage))
	mux.HandleFunc("PUT /api/projects/{id}/scenes/{n}/audio", s.handleUploadAsset(store.MediaAudio))
	mux.HandleFunc("POST /api/projects/{id}/render", s.handleRender)
	mux.HandleFunc("GET /api/projects/{id}/video", s.handleGetVideo)
	mux.HandleFunc("GET /api/voices", s.handleVoices)
	return mux
}

// RunServe loads configuration and serves the API until the listener fails.
func RunServe(logger *zap.Logger) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	st, err := store.New(cfg.DataDir, logger)
	if err != nil {
		return err
	}

	addr := ":" + strconv.Itoa(cfg.Port)
	logger.Info("storycast API listening", zap.String("addr", addr), zap.String("data_dir", cfg.DataDir))
	return http.ListenAndServe(addr, New(st, cfg, logger))
}

// ── Projects ──

func (s *srv) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	id, err := s.store.CreateProject()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *srv) handleListProjects(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.ListProjects()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"projects": ids})
}

func (s *srv) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteProject(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// ── Assets ──

func (s *srv) handleUploadAsset(mt store.MediaType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		n, err := strconv.Atoi(r.PathValue("n"))
		if err != nil {
			http.Error(w, "invalid scene index", http.StatusBadRequest)
			return
		}

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
		if err != nil {
			http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(data) == 0 {
			http.Error(w, "empty body", http.StatusBadRequest)
			return
		}

		if err := s.store.Put(id, n, mt, data); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Info("asset stored",
			zap.String("project_id", id),
			zap.Int("scene", n),
			zap.String("media_type", string(mt)),
			zap.Int("bytes", len(data)))
		writeJSON(w, http.StatusOK, map[string]any{"project": id, "scene": n, "type": mt, "size": len(data)})
	}
}

// ── Render ──

type renderScene struct {
	Caption    string             `json:"caption"`
	Vocabulary []scene.VocabEntry `json:"vocabulary,omitempty"`
}

type renderRequest struct {
	Scenes          []renderScene `json:"scenes"`
	Width           int           `json:"width"`
	Height          int           `json:"height"`
	FPS             int           `json:"fps"`
	PadSeconds      float64       `json:"padSeconds"`
	FadeSeconds     float64       `json:"fadeSeconds"`
	Layout          string        `json:"layout"`
	DividerFraction float64       `json:"dividerFraction"`
}

type renderResponse struct {
	Duration  float64 `json:"duration"`
	Frames    int     `json:"frames"`
	Truncated bool    `json:"truncated"`
	VideoURL  string  `json:"videoUrl"`
}

func (s *srv) handleRender(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "decode request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Scenes) == 0 {
		http.Error(w, "no scenes in request", http.StatusBadRequest)
		return
	}

	scenes := make([]scene.Scene, len(req.Scenes))
	for i, rs := range req.Scenes {
		sc := scene.Scene{CaptionText: rs.Caption, Vocabulary: rs.Vocabulary}
		if data, err := s.store.Get(id, i, store.MediaImage); err == nil {
			sc.Image = data
		}
		if data, err := s.store.Get(id, i, store.MediaAudio); err == nil {
			sc.Audio = data
		}
		scenes[i] = sc
	}

	opts := render.Options{
		Width:       req.Width,
		Height:      req.Height,
		FPS:         req.FPS,
		PadSeconds:  req.PadSeconds,
		FadeSeconds: req.FadeSeconds,
		Logger:      s.logger,
	}
	if req.Layout == "split" {
		opts.Layout = frame.Layout{Kind: frame.LayoutSplitPanel, DividerFraction: req.DividerFraction}
	}

	res, err := render.Render(r.Context(), scenes, opts)
	if err != nil {
		http.Error(w, "render: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.store.PutVideo(id, res.Video); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, renderResponse{
		Duration:  res.Duration,
		Frames:    res.Frames,
		Truncated: res.Truncated,
		VideoURL:  fmt.Sprintf("/api/projects/%s/video", id),
	})
}

func (s *srv) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, err := s.store.GetVideo(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "video/avi")
	w.Header().Set("Content-Disposition", `attachment; filename="story.avi"`)
	w.Write(data)
}

// ── Voices ──

func (s *srv) handleVoices(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "ko"
	}
	voices := s.voices.AvailableVoices(lang)
	if voices == nil {
		voices = []tts.VoiceProfile{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"language": lang, "voices": voices})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
