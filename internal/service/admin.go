package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/educast/studio/internal/model"
	"github.com/educast/studio/internal/repository"
)

// AdminService backs the admin dashboard endpoints.
type AdminService struct {
	users    repository.UserRepository
	podcasts repository.PodcastRepository
	logger   *slog.Logger
}

// NewAdminService wires the admin business logic.
func NewAdminService(users repository.UserRepository, podcasts repository.PodcastRepository, logger *slog.Logger) *AdminService {
	return &AdminService{users: users, podcasts: podcasts, logger: logger}
}

const maxAdminPerPage = 100

// ListUsers returns all accounts, newest first.
func (s *AdminService) ListUsers(ctx context.Context, page, perPage int) ([]model.User, PageMeta, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > maxAdminPerPage {
		perPage = maxAdminPerPage
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, PageMeta{}, err
	}
	users, err := s.users.List(ctx, repository.ListOptions{
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		return nil, PageMeta{}, err
	}
	return users, pageMeta(total, page, perPage), nil
}

// AdminPodcast is a podcast row with its owner attached for display.
type AdminPodcast struct {
	model.Podcast
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// ListPodcasts returns podcasts across all users, newest first, with
// owner name and email attached.
func (s *AdminService) ListPodcasts(ctx context.Context, status string, page, perPage int) ([]AdminPodcast, PageMeta, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > maxAdminPerPage {
		perPage = maxAdminPerPage
	}

	filter := repository.PodcastFilter{Status: status}
	total, err := s.podcasts.Count(ctx, filter)
	if err != nil {
		return nil, PageMeta{}, err
	}
	podcasts, err := s.podcasts.List(ctx, filter, repository.ListOptions{
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		return nil, PageMeta{}, err
	}

	// Resolve each owner once; pages are small enough that a cache
	// beats a SQL join re-plumbed through the repository interface.
	cache := map[string]*model.User{}
	rows := make([]AdminPodcast, 0, len(podcasts))
	for _, p := range podcasts {
		owner, ok := cache[p.UserID]
		if !ok {
			owner, err = s.users.GetUserByID(ctx, p.UserID)
			if err != nil {
				owner = &model.User{Name: "Unknown", Email: ""}
			}
			cache[p.UserID] = owner
		}
		rows = append(rows, AdminPodcast{
			Podcast:   p,
			UserName:  owner.Name,
			UserEmail: owner.Email,
		})
	}
	return rows, pageMeta(total, page, perPage), nil
}

// Stats is the admin dashboard summary block.
type Stats struct {
	TotalUsers        int             `json:"total_users"`
	ActiveUsers       int             `json:"active_users"`
	TotalPodcasts     int             `json:"total_podcasts"`
	CompletedPodcasts int             `json:"completed_podcasts"`
	SuccessRate       float64         `json:"success_rate"`
	RecentUsers       []model.User    `json:"recent_users"`
	RecentPodcasts    []model.Podcast `json:"recent_podcasts"`
}

// GetStats aggregates the dashboard numbers. Active means a login in
// the last 30 days.
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.users.CountActiveSince(ctx, time.Now().UTC().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	totalPodcasts, err := s.podcasts.Count(ctx, repository.PodcastFilter{})
	if err != nil {
		return nil, err
	}
	completed, err := s.podcasts.Count(ctx, repository.PodcastFilter{Status: model.StatusCompleted})
	if err != nil {
		return nil, err
	}

	var successRate float64
	if totalPodcasts > 0 {
		successRate = math.Round(float64(completed)/float64(totalPodcasts)*1000) / 10
	}

	recentUsers, err := s.users.List(ctx, repository.ListOptions{Limit: 5})
	if err != nil {
		return nil, err
	}
	recentPodcasts, err := s.podcasts.List(ctx, repository.PodcastFilter{}, repository.ListOptions{Limit: 5})
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalUsers:        totalUsers,
		ActiveUsers:       activeUsers,
		TotalPodcasts:     totalPodcasts,
		CompletedPodcasts: completed,
		SuccessRate:       successRate,
		RecentUsers:       recentUsers,
		RecentPodcasts:    recentPodcasts,
	}, nil
}
