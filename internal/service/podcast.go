package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/catalog"
	"github.com/educast/studio/internal/generator"
	"github.com/educast/studio/internal/model"
	"github.com/educast/studio/internal/repository"
)

// Generator is the slice of the pool the service needs. Tests swap in
// a fake; production wires *generator.Pool.
type Generator interface {
	Enqueue(job generator.Job) bool
	Cancel(podcastID string) bool
}

// PodcastService owns the podcast lifecycle around the generator pool.
type PodcastService struct {
	podcasts  repository.PodcastRepository
	pool      Generator
	scripts   *generator.ScriptWriter
	uploadDir string
	logger    *slog.Logger
}

// NewPodcastService wires the podcast business logic.
func NewPodcastService(
	podcasts repository.PodcastRepository,
	pool Generator,
	scripts *generator.ScriptWriter,
	uploadDir string,
	logger *slog.Logger,
) *PodcastService {
	return &PodcastService{
		podcasts:  podcasts,
		pool:      pool,
		scripts:   scripts,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// CreateRequest carries the generate-podcast endpoint's input.
type CreateRequest struct {
	BookID          int     `json:"book_id"`
	BookTitle       string  `json:"book_title"`
	BookAuthor      string  `json:"book_author"`
	DurationMinutes int     `json:"duration"`
	Tone            string  `json:"tone"`
	Language        string  `json:"language"`
	Speed           float64 `json:"speed"`
}

const defaultDurationMinutes = 5

// Create starts podcast generation for a book. Repeat requests for
// the same (user, book) return the existing podcast instead of
// generating twice; created reports which case this was.
func (s *PodcastService) Create(ctx context.Context, user *model.User, req CreateRequest) (podcast *model.Podcast, created bool, err error) {
	book, ok := catalog.Get(req.BookID)
	if !ok {
		return nil, false, apperror.NotFound("book", strconv.Itoa(req.BookID))
	}
	if strings.TrimSpace(req.BookTitle) == "" {
		return nil, false, apperror.ValidationFailed("book_title", "book title is required")
	}
	if strings.TrimSpace(req.BookAuthor) == "" {
		return nil, false, apperror.ValidationFailed("book_author", "book author is required")
	}
	// Absent or invalid durations fall back to the default rather
	// than rejecting the request.
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = defaultDurationMinutes
	}

	existing, err := s.podcasts.GetByUserAndBook(ctx, user.ID, req.BookID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, false, err
	}

	tone := req.Tone
	if tone == "" {
		tone = "educational"
	}
	language := req.Language
	if language == "" {
		language = "English"
	}
	speed := req.Speed
	if speed <= 0 {
		speed = 1.0
	}

	p := &model.Podcast{
		UserID:      user.ID,
		BookID:      book.ID,
		BookTitle:   strings.TrimSpace(req.BookTitle),
		BookAuthor:  strings.TrimSpace(req.BookAuthor),
		Title:       "EduCast: " + book.Title,
		Description: fmt.Sprintf("An educational podcast about '%s' by %s.", book.Title, book.Author),
		Duration:    strconv.Itoa(req.DurationMinutes),
		Format:      "mp3",
		Script:      s.scripts.Write(book, req.DurationMinutes),
		Language:    language,
		Tone:        tone,
		Speed:       speed,
		Status:      model.StatusPending,
		Tags:        generator.Tags(book),
	}
	if err := s.podcasts.Create(ctx, p); err != nil {
		return nil, false, err
	}

	// Flip to processing before enqueueing so the caller never
	// observes a pending row for an admitted job.
	p.Status = model.StatusProcessing
	p.Progress = 10
	if err := s.podcasts.Update(ctx, p); err != nil {
		return nil, false, err
	}

	if !s.pool.Enqueue(generator.Job{
		PodcastID:       p.ID,
		BookID:          book.ID,
		DurationMinutes: req.DurationMinutes,
	}) {
		// Queue full. Remove the row so the user can retry cleanly.
		if delErr := s.podcasts.Delete(ctx, p.ID); delErr != nil {
			s.logger.Error("failed to remove rejected podcast row",
				slog.String("podcastID", p.ID),
				slog.String("error", delErr.Error()))
		}
		return nil, false, apperror.Unavailable("generation queue is full, please try again shortly")
	}

	s.logger.Info("podcast generation queued",
		slog.String("podcastID", p.ID),
		slog.String("userID", user.ID),
		slog.Int("bookID", book.ID))
	return p, true, nil
}

const maxPodcastsPerPage = 50

// PageMeta is the pagination block attached to list responses.
type PageMeta struct {
	Total       int  `json:"total"`
	TotalPages  int  `json:"total_pages"`
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	HasNext     bool `json:"has_next"`
	HasPrev     bool `json:"has_prev"`
}

func pageMeta(total, page, perPage int) PageMeta {
	totalPages := (total + perPage - 1) / perPage
	return PageMeta{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PerPage:     perPage,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// List returns the user's podcasts newest first.
func (s *PodcastService) List(ctx context.Context, user *model.User, status string, page, perPage int) ([]model.Podcast, PageMeta, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > maxPodcastsPerPage {
		perPage = maxPodcastsPerPage
	}

	filter := repository.PodcastFilter{UserID: user.ID, Status: status}
	total, err := s.podcasts.Count(ctx, filter)
	if err != nil {
		return nil, PageMeta{}, err
	}

	items, err := s.podcasts.List(ctx, filter, repository.ListOptions{
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		return nil, PageMeta{}, err
	}
	return items, pageMeta(total, page, perPage), nil
}

// Get fetches one of the user's podcasts. play=true also counts a
// playback. Admins can read anyone's.
func (s *PodcastService) Get(ctx context.Context, user *model.User, id string, play bool) (*model.Podcast, error) {
	p, err := s.podcasts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != user.ID && user.Role != model.RoleAdmin {
		return nil, apperror.NotFound("podcast", id)
	}

	if play && p.Status == model.StatusCompleted {
		if err := s.podcasts.IncrementPlayCount(ctx, id); err != nil {
			return nil, err
		}
		p.PlayCount++
	}
	return p, nil
}

// Delete removes the podcast and its audio artifact. Artifact removal
// is best effort; a missing file never blocks the row delete.
func (s *PodcastService) Delete(ctx context.Context, user *model.User, id string) error {
	p, err := s.podcasts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.UserID != user.ID && user.Role != model.RoleAdmin {
		return apperror.NotFound("podcast", id)
	}

	if p.AudioURL != "" {
		name := filepath.Base(p.AudioURL)
		if err := os.Remove(filepath.Join(s.uploadDir, name)); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove audio file",
				slog.String("podcastID", id),
				slog.String("file", name),
				slog.String("error", err.Error()))
		}
	}
	return s.podcasts.Delete(ctx, id)
}

// Like adds one like and returns the new count. Any authenticated
// user may like any podcast.
func (s *PodcastService) Like(ctx context.Context, id string) (int, error) {
	return s.podcasts.IncrementLikeCount(ctx, id)
}

// Cancel aborts generation. Running jobs get their context cancelled
// and the worker records the terminal state; queued jobs are flipped
// directly, which the worker notices before doing any work.
func (s *PodcastService) Cancel(ctx context.Context, user *model.User, id string) error {
	p, err := s.podcasts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.UserID != user.ID && user.Role != model.RoleAdmin {
		return apperror.NotFound("podcast", id)
	}
	if p.Terminal() {
		return apperror.ValidationFailed("status", "podcast generation has already finished")
	}

	if s.pool.Cancel(id) {
		s.logger.Info("cancelled running generation", slog.String("podcastID", id))
		return nil
	}

	p.Status = model.StatusCancelled
	p.ErrorMessage = "generation cancelled"
	if err := s.podcasts.Update(ctx, p); err != nil {
		return err
	}
	s.logger.Info("cancelled queued generation", slog.String("podcastID", id))
	return nil
}
