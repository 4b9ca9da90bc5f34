package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/model"
	"github.com/educast/studio/internal/repository"
)

var _ repository.PodcastRepository = (*PodcastRepo)(nil)

// PodcastRepo implements repository.PodcastRepository on SQLite.
type PodcastRepo struct {
	db *DB
}

const podcastColumns = `id, user_id, book_id, book_title, book_author, title, description,
	audio_url, file_size, duration, format, script, language, tone, speed,
	status, progress, error_message, play_count, like_count, download_count,
	tags, is_public, created_at, updated_at, completed_at`

// Create inserts a new podcast row in whatever state the caller set
// (normally pending with progress 0).
func (r *PodcastRepo) Create(ctx context.Context, p *model.Podcast) error {
	now := time.Now().UTC()
	p.ID = xid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO podcasts (`+podcastColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.BookID, p.BookTitle, p.BookAuthor, p.Title, p.Description,
		p.AudioURL, p.FileSize, p.Duration, p.Format, p.Script, p.Language, p.Tone, p.Speed,
		p.Status, p.Progress, p.ErrorMessage, p.PlayCount, p.LikeCount, p.DownloadCount,
		p.Tags, p.IsPublic, p.CreatedAt, p.UpdatedAt, p.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting podcast for book %d: %w", p.BookID, err)
	}
	return nil
}

// GetByID retrieves a podcast regardless of owner. Ownership checks
// belong to the service layer.
func (r *PodcastRepo) GetByID(ctx context.Context, id string) (*model.Podcast, error) {
	row := r.db.conn.QueryRowContext(ctx,
		`SELECT `+podcastColumns+` FROM podcasts WHERE id = ?`, id)

	p, err := scanPodcast(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("podcast", id)
		}
		return nil, fmt.Errorf("sqlite: getting podcast %s: %w", id, err)
	}
	return p, nil
}

// GetByUserAndBook returns the newest podcast a user generated for a
// given book. Generation is idempotent per (user, book) while a job
// is still in flight, and this lookup is how the service finds out.
func (r *PodcastRepo) GetByUserAndBook(ctx context.Context, userID string, bookID int) (*model.Podcast, error) {
	row := r.db.conn.QueryRowContext(ctx,
		`SELECT `+podcastColumns+` FROM podcasts
		 WHERE user_id = ? AND book_id = ?
		 ORDER BY created_at DESC LIMIT 1`,
		userID, bookID)

	p, err := scanPodcast(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("podcast", fmt.Sprintf("book %d", bookID))
		}
		return nil, fmt.Errorf("sqlite: getting podcast by user/book: %w", err)
	}
	return p, nil
}

// List returns podcasts newest-first, narrowed by the filter.
func (r *PodcastRepo) List(ctx context.Context, filter repository.PodcastFilter, opts repository.ListOptions) ([]model.Podcast, error) {
	where, args := podcastWhere(filter)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT `+podcastColumns+` FROM podcasts`+where+`
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing podcasts: %w", err)
	}
	defer rows.Close()

	podcasts := []model.Podcast{}
	for rows.Next() {
		p, err := scanPodcast(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning podcast row: %w", err)
		}
		podcasts = append(podcasts, *p)
	}
	return podcasts, rows.Err()
}

// Count returns the number of podcasts matching the filter.
func (r *PodcastRepo) Count(ctx context.Context, filter repository.PodcastFilter) (int, error) {
	where, args := podcastWhere(filter)

	var n int
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM podcasts`+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting podcasts: %w", err)
	}
	return n, nil
}

// Update writes the full row back. Generation workers call this on
// every progress step, so it has to be cheap.
func (r *PodcastRepo) Update(ctx context.Context, p *model.Podcast) error {
	p.UpdatedAt = time.Now().UTC()

	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE podcasts SET title = ?, description = ?, audio_url = ?, file_size = ?,
			duration = ?, format = ?, script = ?, language = ?, tone = ?, speed = ?,
			status = ?, progress = ?, error_message = ?, play_count = ?, like_count = ?,
			download_count = ?, tags = ?, is_public = ?, updated_at = ?, completed_at = ?
		 WHERE id = ?`,
		p.Title, p.Description, p.AudioURL, p.FileSize,
		p.Duration, p.Format, p.Script, p.Language, p.Tone, p.Speed,
		p.Status, p.Progress, p.ErrorMessage, p.PlayCount, p.LikeCount,
		p.DownloadCount, p.Tags, p.IsPublic, p.UpdatedAt, p.CompletedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating podcast %s: %w", p.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating podcast %s: %w", p.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("podcast", p.ID)
	}
	return nil
}

// Delete removes the podcast row. The audio file on disk is the
// service layer's responsibility.
func (r *PodcastRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM podcasts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting podcast %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting podcast %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("podcast", id)
	}
	return nil
}

// IncrementPlayCount bumps play_count atomically in SQL. Two
// concurrent plays must both count, so read-modify-write in Go would
// be wrong here.
func (r *PodcastRepo) IncrementPlayCount(ctx context.Context, id string) error {
	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE podcasts SET play_count = play_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: incrementing play count for %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: incrementing play count for %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("podcast", id)
	}
	return nil
}

// IncrementLikeCount bumps like_count atomically and returns the new
// value for the response body.
func (r *PodcastRepo) IncrementLikeCount(ctx context.Context, id string) (int, error) {
	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE podcasts SET like_count = like_count + 1 WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("sqlite: incrementing like count for %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: incrementing like count for %s: %w", id, err)
	}
	if affected == 0 {
		return 0, apperror.NotFound("podcast", id)
	}

	var likes int
	err = r.db.conn.QueryRowContext(ctx,
		`SELECT like_count FROM podcasts WHERE id = ?`, id).Scan(&likes)
	if err != nil {
		return 0, fmt.Errorf("sqlite: reading like count for %s: %w", id, err)
	}
	return likes, nil
}

func podcastWhere(filter repository.PodcastFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanPodcast(s scanner) (*model.Podcast, error) {
	var p model.Podcast
	err := s.Scan(
		&p.ID, &p.UserID, &p.BookID, &p.BookTitle, &p.BookAuthor, &p.Title, &p.Description,
		&p.AudioURL, &p.FileSize, &p.Duration, &p.Format, &p.Script, &p.Language, &p.Tone, &p.Speed,
		&p.Status, &p.Progress, &p.ErrorMessage, &p.PlayCount, &p.LikeCount, &p.DownloadCount,
		&p.Tags, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt, &p.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
