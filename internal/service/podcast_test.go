package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/generator"
	"github.com/educast/studio/internal/model"
	"github.com/educast/studio/internal/repository"
)

// ============================================================
// FAKES
// ============================================================

type fakePodcastRepo struct {
	rows   map[string]*model.Podcast
	nextID int
}

func newFakePodcastRepo() *fakePodcastRepo {
	return &fakePodcastRepo{rows: map[string]*model.Podcast{}, nextID: 1}
}

func (f *fakePodcastRepo) Create(_ context.Context, p *model.Podcast) error {
	p.ID = "pod-" + strconv.Itoa(f.nextID)
	f.nextID++
	p.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Millisecond)
	p.UpdatedAt = p.CreatedAt
	copied := *p
	f.rows[p.ID] = &copied
	return nil
}

func (f *fakePodcastRepo) GetByID(_ context.Context, id string) (*model.Podcast, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, apperror.NotFound("podcast", id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakePodcastRepo) GetByUserAndBook(_ context.Context, userID string, bookID int) (*model.Podcast, error) {
	for _, p := range f.rows {
		if p.UserID == userID && p.BookID == bookID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("podcast", strconv.Itoa(bookID))
}

func (f *fakePodcastRepo) matches(p *model.Podcast, filter repository.PodcastFilter) bool {
	if filter.UserID != "" && p.UserID != filter.UserID {
		return false
	}
	if filter.Status != "" && p.Status != filter.Status {
		return false
	}
	return true
}

func (f *fakePodcastRepo) List(_ context.Context, filter repository.PodcastFilter, opts repository.ListOptions) ([]model.Podcast, error) {
	out := []model.Podcast{}
	for _, p := range f.rows {
		if f.matches(p, filter) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if opts.Offset < len(out) {
		out = out[opts.Offset:]
	} else {
		out = nil
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *fakePodcastRepo) Count(_ context.Context, filter repository.PodcastFilter) (int, error) {
	n := 0
	for _, p := range f.rows {
		if f.matches(p, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakePodcastRepo) Update(_ context.Context, p *model.Podcast) error {
	if _, ok := f.rows[p.ID]; !ok {
		return apperror.NotFound("podcast", p.ID)
	}
	copied := *p
	f.rows[p.ID] = &copied
	return nil
}

func (f *fakePodcastRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return apperror.NotFound("podcast", id)
	}
	delete(f.rows, id)
	return nil
}

func (f *fakePodcastRepo) IncrementPlayCount(_ context.Context, id string) error {
	p, ok := f.rows[id]
	if !ok {
		return apperror.NotFound("podcast", id)
	}
	p.PlayCount++
	return nil
}

func (f *fakePodcastRepo) IncrementLikeCount(_ context.Context, id string) (int, error) {
	p, ok := f.rows[id]
	if !ok {
		return 0, apperror.NotFound("podcast", id)
	}
	p.LikeCount++
	return p.LikeCount, nil
}

// fakePool records enqueued jobs without running anything.
type fakePool struct {
	jobs      []generator.Job
	full      bool
	cancelled []string
	inFlight  bool
}

func (f *fakePool) Enqueue(job generator.Job) bool {
	if f.full {
		return false
	}
	f.jobs = append(f.jobs, job)
	return true
}

func (f *fakePool) Cancel(podcastID string) bool {
	f.cancelled = append(f.cancelled, podcastID)
	return f.inFlight
}

// ============================================================
// HELPERS
// ============================================================

func newTestPodcastService(t *testing.T, repo *fakePodcastRepo, pool *fakePool, uploadDir string) *PodcastService {
	t.Helper()
	if uploadDir == "" {
		uploadDir = t.TempDir()
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewPodcastService(repo, pool, generator.NewScriptWriter(1), uploadDir, logger)
}

func testUser(id, role string) *model.User {
	return &model.User{ID: id, Name: "Test", Email: id + "@example.com", Role: role}
}

// ============================================================
// CREATE
// ============================================================

func TestPodcastCreate_QueuesJob(t *testing.T) {
	repo := newFakePodcastRepo()
	pool := &fakePool{}
	svc := newTestPodcastService(t, repo, pool, "")
	user := testUser("u1", model.RoleUser)

	p, created, err := svc.Create(context.Background(), user, CreateRequest{
		BookID:     1,
		BookTitle:  "Pride and Prejudice",
		BookAuthor: "Jane Austen",
	})
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, model.StatusProcessing, p.Status)
	assert.Equal(t, 10, p.Progress)
	assert.Equal(t, "EduCast: Pride and Prejudice", p.Title)
	assert.Equal(t, "5", p.Duration, "duration defaults to 5 minutes")
	assert.Equal(t, "educational", p.Tone)
	assert.Contains(t, p.Script, "Pride and Prejudice")
	assert.NotEmpty(t, p.Tags)

	require.Len(t, pool.jobs, 1)
	assert.Equal(t, p.ID, pool.jobs[0].PodcastID)
	assert.Equal(t, 5, pool.jobs[0].DurationMinutes)
}

func TestPodcastCreate_IdempotentPerBook(t *testing.T) {
	repo := newFakePodcastRepo()
	pool := &fakePool{}
	svc := newTestPodcastService(t, repo, pool, "")
	user := testUser("u1", model.RoleUser)
	ctx := context.Background()

	req := CreateRequest{BookID: 2, BookTitle: "The Great Gatsby", BookAuthor: "F. Scott Fitzgerald"}
	first, created, err := svc.Create(ctx, user, req)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Create(ctx, user, req)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, pool.jobs, 1, "no second job queued")
}

func TestPodcastCreate_Validation(t *testing.T) {
	pool := &fakePool{}
	svc := newTestPodcastService(t, newFakePodcastRepo(), pool, "")
	user := testUser("u1", model.RoleUser)
	ctx := context.Background()

	_, _, err := svc.Create(ctx, user, CreateRequest{BookID: 99, BookTitle: "X", BookAuthor: "Y"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, _, err = svc.Create(ctx, user, CreateRequest{BookID: 1, BookTitle: "  ", BookAuthor: "Jane Austen"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, _, err = svc.Create(ctx, user, CreateRequest{BookID: 1, BookTitle: "Pride and Prejudice", BookAuthor: ""})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// An invalid duration is coerced to the default, not rejected.
	p, created, err := svc.Create(ctx, user, CreateRequest{BookID: 1, BookTitle: "Pride and Prejudice", BookAuthor: "Jane Austen", DurationMinutes: -3})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "5", p.Duration)
	require.Len(t, pool.jobs, 1)
	assert.Equal(t, 5, pool.jobs[0].DurationMinutes)
}

func TestPodcastCreate_QueueFull(t *testing.T) {
	repo := newFakePodcastRepo()
	pool := &fakePool{full: true}
	svc := newTestPodcastService(t, repo, pool, "")
	user := testUser("u1", model.RoleUser)

	_, _, err := svc.Create(context.Background(), user, CreateRequest{
		BookID: 3, BookTitle: "Frankenstein", BookAuthor: "Mary Shelley",
	})
	assert.ErrorIs(t, err, apperror.ErrUnavailable)
	assert.Empty(t, repo.rows, "rejected row must not linger")
}

// ============================================================
// GET / LIST / DELETE
// ============================================================

func TestPodcastGet_OwnershipAndPlay(t *testing.T) {
	repo := newFakePodcastRepo()
	svc := newTestPodcastService(t, repo, &fakePool{}, "")
	owner := testUser("u1", model.RoleUser)
	ctx := context.Background()

	p := &model.Podcast{UserID: "u1", BookID: 1, Status: model.StatusCompleted}
	require.NoError(t, repo.Create(ctx, p))

	got, err := svc.Get(ctx, owner, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PlayCount)

	// play=false leaves the counter alone
	got, err = svc.Get(ctx, owner, p.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PlayCount)

	// Strangers see a 404, admins see the podcast.
	_, err = svc.Get(ctx, testUser("u2", model.RoleUser), p.ID, false)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = svc.Get(ctx, testUser("a1", model.RoleAdmin), p.ID, false)
	assert.NoError(t, err)
}

func TestPodcastGet_NoPlayCountWhileProcessing(t *testing.T) {
	repo := newFakePodcastRepo()
	svc := newTestPodcastService(t, repo, &fakePool{}, "")
	owner := testUser("u1", model.RoleUser)
	ctx := context.Background()

	p := &model.Podcast{UserID: "u1", BookID: 1, Status: model.StatusProcessing}
	require.NoError(t, repo.Create(ctx, p))

	got, err := svc.Get(ctx, owner, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 0, got.PlayCount)
}

func TestPodcastList_Pagination(t *testing.T) {
	repo := newFakePodcastRepo()
	svc := newTestPodcastService(t, repo, &fakePool{}, "")
	user := testUser("u1", model.RoleUser)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		require.NoError(t, repo.Create(ctx, &model.Podcast{UserID: "u1", BookID: i + 1, Status: model.StatusCompleted}))
	}
	require.NoError(t, repo.Create(ctx, &model.Podcast{UserID: "other", BookID: 1, Status: model.StatusCompleted}))

	items, meta, err := svc.List(ctx, user, "", 2, 3)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 7, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	// per_page is capped
	_, meta, err = svc.List(ctx, user, "", 1, 500)
	require.NoError(t, err)
	assert.Equal(t, maxPodcastsPerPage, meta.PerPage)
}

func TestPodcastDelete_RemovesArtifact(t *testing.T) {
	repo := newFakePodcastRepo()
	dir := t.TempDir()
	svc := newTestPodcastService(t, repo, &fakePool{}, dir)
	owner := testUser("u1", model.RoleUser)
	ctx := context.Background()

	audio := filepath.Join(dir, "podcast_x_1.mp3")
	require.NoError(t, os.WriteFile(audio, []byte("mp3"), 0o644))

	p := &model.Podcast{UserID: "u1", BookID: 1, Status: model.StatusCompleted, AudioURL: "/static/audio/podcast_x_1.mp3"}
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, svc.Delete(ctx, owner, p.ID))
	assert.NoFileExists(t, audio)
	assert.Empty(t, repo.rows)

	assert.ErrorIs(t, svc.Delete(ctx, owner, p.ID), apperror.ErrNotFound)
}

// ============================================================
// CANCEL / LIKE
// ============================================================

func TestPodcastCancel(t *testing.T) {
	repo := newFakePodcastRepo()
	pool := &fakePool{}
	svc := newTestPodcastService(t, repo, pool, "")
	owner := testUser("u1", model.RoleUser)
	ctx := context.Background()

	// Queued job: the pool reports nothing in flight, so the row is
	// flipped directly.
	p := &model.Podcast{UserID: "u1", BookID: 1, Status: model.StatusPending}
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, svc.Cancel(ctx, owner, p.ID))
	got, _ := repo.GetByID(ctx, p.ID)
	assert.Equal(t, model.StatusCancelled, got.Status)

	// Running job: the worker owns the terminal write.
	pool.inFlight = true
	running := &model.Podcast{UserID: "u1", BookID: 2, Status: model.StatusProcessing}
	require.NoError(t, repo.Create(ctx, running))
	require.NoError(t, svc.Cancel(ctx, owner, running.ID))
	got, _ = repo.GetByID(ctx, running.ID)
	assert.Equal(t, model.StatusProcessing, got.Status)
	assert.Contains(t, pool.cancelled, running.ID)
}

func TestPodcastCancel_Guards(t *testing.T) {
	repo := newFakePodcastRepo()
	svc := newTestPodcastService(t, repo, &fakePool{}, "")
	ctx := context.Background()

	done := &model.Podcast{UserID: "u1", BookID: 1, Status: model.StatusCompleted}
	require.NoError(t, repo.Create(ctx, done))

	err := svc.Cancel(ctx, testUser("u1", model.RoleUser), done.ID)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	err = svc.Cancel(ctx, testUser("u2", model.RoleUser), done.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPodcastLike(t *testing.T) {
	repo := newFakePodcastRepo()
	svc := newTestPodcastService(t, repo, &fakePool{}, "")
	ctx := context.Background()

	p := &model.Podcast{UserID: "u1", BookID: 1, Status: model.StatusCompleted}
	require.NoError(t, repo.Create(ctx, p))

	likes, err := svc.Like(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, likes)

	likes, err = svc.Like(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, likes)
}
