// Package generator runs podcast generation jobs on a bounded worker
// pool. Admission happens at enqueue time: a full queue rejects the
// request instead of letting synthesis jobs pile up unbounded.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/educast/studio/internal/catalog"
	"github.com/educast/studio/internal/model"
	"github.com/educast/studio/internal/repository"
	"github.com/educast/studio/internal/speech"
)

// Config sizes the pool and bounds each job.
type Config struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
	UploadDir  string
}

// Job identifies one queued generation run.
type Job struct {
	PodcastID       string
	BookID          int
	DurationMinutes int
}

// Pool owns the generation workers.
type Pool struct {
	config   Config
	engine   speech.Engine
	scripts  *ScriptWriter
	podcasts repository.PodcastRepository
	logger   *slog.Logger

	jobs      chan Job
	rootCtx   context.Context
	rootStop  context.CancelFunc
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewPool wires a pool; call Start to spin up the workers.
func NewPool(cfg Config, engine speech.Engine, scripts *ScriptWriter, podcasts repository.PodcastRepository, logger *slog.Logger) *Pool {
	ctx, stop := context.WithCancel(context.Background())
	return &Pool{
		config:   cfg,
		engine:   engine,
		scripts:  scripts,
		podcasts: podcasts,
		logger:   logger,
		jobs:     make(chan Job, cfg.QueueSize),
		rootCtx:  ctx,
		rootStop: stop,
		cancels:  map[string]context.CancelFunc{},
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	p.startOnce.Do(func() {
		p.logger.Info("starting generation pool",
			slog.Int("workers", p.config.Workers),
			slog.Int("queueSize", p.config.QueueSize))
		for i := 0; i < p.config.Workers; i++ {
			p.wg.Add(1)
			go p.worker()
		}
	})
}

// Stop cancels running jobs and waits for the workers to exit. Jobs
// still queued when the pool stops keep their processing/10 rows; the
// owner can cancel or delete them and re-create.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("shutting down generation pool")
		p.rootStop()
		p.wg.Wait()
	})
}

// Enqueue admits a job if there is queue room. It never blocks; a
// full queue reports false so the caller can tell the user to retry.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Cancel aborts a podcast's running job. It reports whether a job was
// actually in flight; cancelling a queued or finished podcast is the
// service layer's problem.
func (p *Pool) Cancel(podcastID string) bool {
	p.mu.Lock()
	cancel, ok := p.cancels[podcastID]
	p.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.rootCtx.Done():
			return
		case job := <-p.jobs:
			p.run(job)
		}
	}
}

// run drives one podcast through the lifecycle:
// processing/10 -> script written/30 -> audio synthesized/70 -> done/100.
func (p *Pool) run(job Job) {
	jobCtx, cancel := context.WithTimeout(p.rootCtx, p.config.JobTimeout)
	defer cancel()

	p.mu.Lock()
	p.cancels[job.PodcastID] = cancel
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		delete(p.cancels, job.PodcastID)
		p.mu.Unlock()
	}()

	// Persistence calls must survive job cancellation, so they use a
	// short independent context.
	podcast, err := p.load(job.PodcastID)
	if err != nil {
		p.logger.Error("generation job lost its podcast row",
			slog.String("podcastID", job.PodcastID),
			slog.String("error", err.Error()))
		return
	}
	if podcast.Status == model.StatusCancelled {
		return
	}

	book, ok := catalog.Get(job.BookID)
	if !ok {
		p.fail(podcast, "book no longer in catalog")
		return
	}

	log := p.logger.With(
		slog.String("podcastID", podcast.ID),
		slog.String("book", book.Title))
	log.Info("generation started")

	podcast.Status = model.StatusProcessing
	podcast.Progress = 10
	if err := p.save(podcast); err != nil {
		log.Error("failed to mark podcast processing", slog.String("error", err.Error()))
		return
	}

	podcast.Script = p.scripts.Write(book, job.DurationMinutes)
	podcast.Tags = Tags(book)
	podcast.Progress = 30
	if err := p.save(podcast); err != nil {
		log.Error("failed to persist script", slog.String("error", err.Error()))
		return
	}

	// Synthesize into the upload dir under a scratch name, then
	// rename. Rename is atomic on the same filesystem, so a crash
	// never leaves a half-written file under the public name.
	scratch := filepath.Join(p.config.UploadDir, "."+podcast.ID+".generating.mp3")
	defer os.Remove(scratch)

	err = p.engine.Synthesize(jobCtx, speech.Request{
		Script: podcast.Script,
		Tone:   podcast.Tone,
		Speed:  podcast.Speed,
	}, scratch)
	if err != nil {
		p.finishError(podcast, jobCtx, fmt.Errorf("audio synthesis: %w", err), log)
		return
	}

	podcast.Progress = 70
	if err := p.save(podcast); err != nil {
		log.Error("failed to persist progress", slog.String("error", err.Error()))
		return
	}

	maxSeconds := float64(job.DurationMinutes) * 60
	if err := p.engine.Trim(jobCtx, scratch, maxSeconds); err != nil {
		p.finishError(podcast, jobCtx, fmt.Errorf("trimming audio: %w", err), log)
		return
	}

	seconds, err := p.engine.Duration(jobCtx, scratch)
	if err != nil {
		p.finishError(podcast, jobCtx, fmt.Errorf("probing audio: %w", err), log)
		return
	}

	filename := fmt.Sprintf("podcast_%s_%s.mp3", podcast.ID, time.Now().UTC().Format("20060102_150405"))
	finalPath := filepath.Join(p.config.UploadDir, filename)
	if err := os.Rename(scratch, finalPath); err != nil {
		p.finishError(podcast, jobCtx, fmt.Errorf("publishing audio file: %w", err), log)
		return
	}

	var size int64
	if info, err := os.Stat(finalPath); err == nil {
		size = info.Size()
	}

	now := time.Now().UTC()
	podcast.Status = model.StatusCompleted
	podcast.Progress = 100
	podcast.AudioURL = "/static/audio/" + filename
	podcast.FileSize = size
	podcast.Duration = strconv.FormatFloat(seconds/60, 'f', 1, 64)
	podcast.CompletedAt = &now
	podcast.ErrorMessage = ""
	if err := p.save(podcast); err != nil {
		log.Error("failed to mark podcast completed", slog.String("error", err.Error()))
		return
	}
	log.Info("generation completed",
		slog.Int64("bytes", size),
		slog.Float64("seconds", seconds))
}

// finishError classifies how the job ended: user cancellation,
// timeout, or a genuine synthesis failure.
func (p *Pool) finishError(podcast *model.Podcast, jobCtx context.Context, cause error, log *slog.Logger) {
	switch jobCtx.Err() {
	case context.Canceled:
		podcast.Status = model.StatusCancelled
		podcast.ErrorMessage = "generation cancelled"
		log.Info("generation cancelled")
	case context.DeadlineExceeded:
		podcast.Status = model.StatusFailed
		podcast.ErrorMessage = fmt.Sprintf("generation timed out after %s", p.config.JobTimeout)
		log.Warn("generation timed out")
	default:
		podcast.Status = model.StatusFailed
		podcast.ErrorMessage = cause.Error()
		log.Error("generation failed", slog.String("error", cause.Error()))
	}
	if err := p.save(podcast); err != nil {
		log.Error("failed to persist terminal status", slog.String("error", err.Error()))
	}
}

func (p *Pool) fail(podcast *model.Podcast, msg string) {
	podcast.Status = model.StatusFailed
	podcast.ErrorMessage = msg
	if err := p.save(podcast); err != nil {
		p.logger.Error("failed to persist failure",
			slog.String("podcastID", podcast.ID),
			slog.String("error", err.Error()))
	}
}

func (p *Pool) load(id string) (*model.Podcast, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.podcasts.GetByID(ctx, id)
}

func (p *Pool) save(podcast *model.Podcast) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.podcasts.Update(ctx, podcast)
}
