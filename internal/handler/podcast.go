package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/auth"
	"github.com/educast/studio/internal/model"
	"github.com/educast/studio/internal/service"
)

// PodcastHandler exposes podcast generation and management.
type PodcastHandler struct {
	podcasts *service.PodcastService
}

// NewPodcastHandler creates a PodcastHandler.
func NewPodcastHandler(podcasts *service.PodcastService) *PodcastHandler {
	return &PodcastHandler{podcasts: podcasts}
}

// HandleCreate queues podcast generation for a book.
//
// POST /api/generate-podcast {"book_id", "book_title", "book_author",
// "duration"?, "tone"?, "language"?, "speed"?}
//
// 201 when a new generation was queued, 200 when the user already has
// a podcast for the book.
func (h *PodcastHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req service.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	podcast, created, err := h.podcasts.Create(r.Context(), user, req)
	if err != nil {
		writeError(w, err)
		return
	}

	if !created {
		writeSuccess(w, http.StatusOK, "Podcast already exists for this book", map[string]any{
			"podcast": podcastPayload(podcast),
		})
		return
	}
	writeSuccess(w, http.StatusCreated, "Podcast generation started", map[string]any{
		"podcast": podcastPayload(podcast),
	})
}

// HandleList returns the user's podcasts, newest first.
//
// GET /api/podcasts?status=&page=&per_page=
func (h *PodcastHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	items, meta, err := h.podcasts.List(r.Context(), user, q.Get("status"), page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}

	payloads := make([]podcastView, 0, len(items))
	for i := range items {
		payloads = append(payloads, podcastPayload(&items[i]))
	}
	writeSuccess(w, http.StatusOK, "Podcasts retrieved successfully", map[string]any{
		"podcasts":   payloads,
		"pagination": meta,
	})
}

// HandleGet returns one podcast; ?play=true also counts a playback.
//
// GET /api/podcast/{id}?play=
func (h *PodcastHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	play := r.URL.Query().Get("play") == "true"
	podcast, err := h.podcasts.Get(r.Context(), user, chi.URLParam(r, "id"), play)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Podcast retrieved successfully", map[string]any{
		"podcast": podcastPayload(podcast),
	})
}

// HandleDelete removes a podcast and its audio file.
//
// DELETE /api/podcast/{id}
func (h *PodcastHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	if err := h.podcasts.Delete(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Podcast deleted successfully", nil)
}

// HandleLike adds one like.
//
// POST /api/podcast/{id}/like
func (h *PodcastHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFromContext(r.Context()); !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	likes, err := h.podcasts.Like(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Podcast liked", map[string]any{"like_count": likes})
}

// HandleCancel aborts a queued or running generation.
//
// POST /api/podcast/{id}/cancel
func (h *PodcastHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	if err := h.podcasts.Cancel(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Podcast generation cancelled", nil)
}

// podcastView is the row plus a display-ready file size.
type podcastView struct {
	*model.Podcast
	FileSizeLabel string `json:"file_size_label,omitempty"`
}

func podcastPayload(p *model.Podcast) podcastView {
	return podcastView{Podcast: p, FileSizeLabel: humanSize(p.FileSize)}
}

// humanSize formats bytes the way the dashboard shows them.
func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(1<<10))
	case n > 0:
		return fmt.Sprintf("%d B", n)
	default:
		return ""
	}
}
