package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/repository"
)

const (
	appName    = "EduCast Studio"
	appVersion = "1.2.0"
)

// Pinger is the health probe surface of the database.
type Pinger interface {
	Ping() error
}

// SystemHandler serves health, status and the audio files.
type SystemHandler struct {
	db        Pinger
	users     repository.UserRepository
	podcasts  repository.PodcastRepository
	uploadDir string
	startedAt time.Time
}

// NewSystemHandler creates a SystemHandler; startedAt feeds the
// uptime figure.
func NewSystemHandler(db Pinger, users repository.UserRepository, podcasts repository.PodcastRepository, uploadDir string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		users:     users,
		podcasts:  podcasts,
		uploadDir: uploadDir,
		startedAt: time.Now(),
	}
}

// HandleHealth reports whether the service can do useful work: the
// database answers and the upload directory exists.
//
// GET /api/health
func (h *SystemHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"database":   "ok",
		"upload_dir": "ok",
	}
	healthy := true

	if err := h.db.Ping(); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if info, err := os.Stat(h.uploadDir); err != nil || !info.IsDir() {
		checks["upload_dir"] = "missing"
		healthy = false
	}

	if !healthy {
		writeEnvelope(w, http.StatusServiceUnavailable, Envelope{
			Status:    "error",
			Message:   "Service unhealthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Data:      map[string]any{"healthy": false, "checks": checks},
		})
		return
	}
	writeSuccess(w, http.StatusOK, "Service healthy", map[string]any{
		"healthy": true,
		"checks":  checks,
	})
}

// HandleStatus reports app identity, uptime and basic counts.
//
// GET /api/status
func (h *SystemHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	userCount, err := h.users.Count(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	podcastCount, err := h.podcasts.Count(r.Context(), repository.PodcastFilter{})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Status retrieved successfully", map[string]any{
		"app":      appName,
		"version":  appVersion,
		"uptime":   time.Since(h.startedAt).Round(time.Second).String(),
		"platform": runtime.GOOS + "/" + runtime.GOARCH,
		"users":    userCount,
		"podcasts": podcastCount,
	})
}

// HandleAudio serves a generated audio file. The filename is reduced
// to its base name so a crafted path can't leave the upload dir.
//
// GET /static/audio/{filename}
func (h *SystemHandler) HandleAudio(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "filename"))
	if name == "." || name == string(filepath.Separator) {
		writeError(w, apperror.NotFound("audio file", name))
		return
	}

	path := filepath.Join(h.uploadDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeError(w, apperror.NotFound("audio file", name))
		return
	}
	http.ServeFile(w, r, path)
}
