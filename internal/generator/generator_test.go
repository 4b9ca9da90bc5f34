package generator

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/model"
	"github.com/educast/studio/internal/repository"
	"github.com/educast/studio/internal/speech"
)

// ============================================================
// TEST DOUBLES
// ============================================================

// memPodcasts is an in-memory PodcastRepository. The pool only needs
// GetByID and Update; everything else panics to catch misuse.
type memPodcasts struct {
	mu   sync.Mutex
	rows map[string]model.Podcast
}

func newMemPodcasts() *memPodcasts {
	return &memPodcasts{rows: map[string]model.Podcast{}}
}

func (m *memPodcasts) put(p model.Podcast) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[p.ID] = p
}

func (m *memPodcasts) get(id string) model.Podcast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

func (m *memPodcasts) GetByID(_ context.Context, id string) (*model.Podcast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, apperror.NotFound("podcast", id)
	}
	return &p, nil
}

func (m *memPodcasts) Update(_ context.Context, p *model.Podcast) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[p.ID]; !ok {
		return apperror.NotFound("podcast", p.ID)
	}
	m.rows[p.ID] = *p
	return nil
}

func (m *memPodcasts) Create(context.Context, *model.Podcast) error { panic("unused") }
func (m *memPodcasts) GetByUserAndBook(context.Context, string, int) (*model.Podcast, error) {
	panic("unused")
}
func (m *memPodcasts) List(context.Context, repository.PodcastFilter, repository.ListOptions) ([]model.Podcast, error) {
	panic("unused")
}
func (m *memPodcasts) Count(context.Context, repository.PodcastFilter) (int, error) {
	panic("unused")
}
func (m *memPodcasts) Delete(context.Context, string) error { panic("unused") }
func (m *memPodcasts) IncrementPlayCount(context.Context, string) error {
	panic("unused")
}
func (m *memPodcasts) IncrementLikeCount(context.Context, string) (int, error) {
	panic("unused")
}

// fakeEngine writes a tiny file instantly. block makes Synthesize
// hang until the context is cancelled; fail makes it error.
type fakeEngine struct {
	block bool
	fail  bool
}

func (e *fakeEngine) Synthesize(ctx context.Context, _ speech.Request, outPath string) error {
	if e.fail {
		return assert.AnError
	}
	if e.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return os.WriteFile(outPath, []byte("ID3 fake audio"), 0o644)
}

func (e *fakeEngine) Duration(context.Context, string) (float64, error) {
	return 290.0, nil
}

func (e *fakeEngine) Trim(context.Context, string, float64) error {
	return nil
}

// ============================================================
// HELPERS
// ============================================================

func newTestPool(t *testing.T, engine speech.Engine, repo *memPodcasts, cfg Config) *Pool {
	t.Helper()
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 4
	}
	if cfg.JobTimeout == 0 {
		cfg.JobTimeout = 5 * time.Second
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = t.TempDir()
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	pool := NewPool(cfg, engine, NewScriptWriter(1), repo, logger)
	pool.Start()
	t.Cleanup(pool.Stop)
	return pool
}

func seedPending(repo *memPodcasts, id string, bookID int) {
	repo.put(model.Podcast{
		ID:     id,
		UserID: "u1",
		BookID: bookID,
		Title:  "Test Podcast",
		Status: model.StatusPending,
		Tone:   "educational",
		Speed:  1.0,
		Format: "mp3",
	})
}

// waitStatus polls until the podcast reaches a terminal state.
func waitStatus(t *testing.T, repo *memPodcasts, id string, want string) model.Podcast {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		p := repo.get(id)
		if p.Status == want {
			return p
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("podcast %s never reached status %q (last: %q)", id, want, repo.get(id).Status)
	return model.Podcast{}
}

// ============================================================
// TESTS
// ============================================================

func TestPoolCompletesJob(t *testing.T) {
	repo := newMemPodcasts()
	dir := t.TempDir()
	pool := newTestPool(t, &fakeEngine{}, repo, Config{UploadDir: dir})

	seedPending(repo, "p1", 1)
	require.True(t, pool.Enqueue(Job{PodcastID: "p1", BookID: 1, DurationMinutes: 5}))

	p := waitStatus(t, repo, "p1", model.StatusCompleted)
	assert.Equal(t, 100, p.Progress)
	assert.Contains(t, p.AudioURL, "/static/audio/podcast_p1_")
	assert.Contains(t, p.Script, "HOST:")
	assert.NotEmpty(t, p.Tags)
	assert.Equal(t, "4.8", p.Duration)
	require.NotNil(t, p.CompletedAt)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "podcast_p1_")
}

func TestPoolMarksFailure(t *testing.T) {
	repo := newMemPodcasts()
	pool := newTestPool(t, &fakeEngine{fail: true}, repo, Config{})

	seedPending(repo, "p1", 2)
	require.True(t, pool.Enqueue(Job{PodcastID: "p1", BookID: 2, DurationMinutes: 5}))

	p := waitStatus(t, repo, "p1", model.StatusFailed)
	assert.Contains(t, p.ErrorMessage, "audio synthesis")
}

func TestPoolUnknownBookFails(t *testing.T) {
	repo := newMemPodcasts()
	pool := newTestPool(t, &fakeEngine{}, repo, Config{})

	seedPending(repo, "p1", 999)
	require.True(t, pool.Enqueue(Job{PodcastID: "p1", BookID: 999, DurationMinutes: 5}))

	p := waitStatus(t, repo, "p1", model.StatusFailed)
	assert.Contains(t, p.ErrorMessage, "catalog")
}

func TestPoolCancel(t *testing.T) {
	repo := newMemPodcasts()
	pool := newTestPool(t, &fakeEngine{block: true}, repo, Config{})

	seedPending(repo, "p1", 3)
	require.True(t, pool.Enqueue(Job{PodcastID: "p1", BookID: 3, DurationMinutes: 5}))

	waitStatus(t, repo, "p1", model.StatusProcessing)
	require.True(t, pool.Cancel("p1"))

	p := waitStatus(t, repo, "p1", model.StatusCancelled)
	assert.Equal(t, "generation cancelled", p.ErrorMessage)

	// Nothing in flight anymore.
	assert.False(t, pool.Cancel("p1"))
}

func TestPoolTimeout(t *testing.T) {
	repo := newMemPodcasts()
	pool := newTestPool(t, &fakeEngine{block: true}, repo, Config{JobTimeout: 50 * time.Millisecond})

	seedPending(repo, "p1", 4)
	require.True(t, pool.Enqueue(Job{PodcastID: "p1", BookID: 4, DurationMinutes: 5}))

	p := waitStatus(t, repo, "p1", model.StatusFailed)
	assert.Contains(t, p.ErrorMessage, "timed out")
}

func TestPoolQueueFull(t *testing.T) {
	repo := newMemPodcasts()
	pool := newTestPool(t, &fakeEngine{block: true}, repo, Config{Workers: 1, QueueSize: 1})

	for _, id := range []string{"p1", "p2", "p3"} {
		seedPending(repo, id, 1)
	}

	// First job occupies the worker, second fills the queue.
	require.True(t, pool.Enqueue(Job{PodcastID: "p1", BookID: 1, DurationMinutes: 5}))
	waitStatus(t, repo, "p1", model.StatusProcessing)
	require.True(t, pool.Enqueue(Job{PodcastID: "p2", BookID: 1, DurationMinutes: 5}))

	assert.False(t, pool.Enqueue(Job{PodcastID: "p3", BookID: 1, DurationMinutes: 5}))
}
