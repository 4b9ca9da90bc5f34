// Package espeak voices podcast scripts with the espeak-ng CLI and
// post-processes the result with ffmpeg. Both binaries are looked up
// on PATH at startup so a missing install fails fast instead of on
// the first generation job.
package espeak

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/educast/studio/internal/speech"
)

var _ speech.Engine = (*Engine)(nil)

// Config holds the external binaries and synthesis defaults.
type Config struct {
	EspeakBin  string
	FfmpegBin  string
	FfprobeBin string

	// Voice is the espeak-ng voice name, e.g. "en-us".
	Voice string

	// BaseRate is words per minute before the per-podcast speed
	// multiplier is applied.
	BaseRate int
}

// DefaultConfig returns sensible synthesis defaults.
func DefaultConfig() Config {
	return Config{
		EspeakBin:  "espeak-ng",
		FfmpegBin:  "ffmpeg",
		FfprobeBin: "ffprobe",
		Voice:      "en-us",
		BaseRate:   160,
	}
}

// Engine implements the speech.Engine interface using espeak-ng.
type Engine struct {
	config Config
	logger *slog.Logger
}

// New verifies the binaries exist and returns a ready engine.
func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	for _, bin := range []string{cfg.EspeakBin, cfg.FfmpegBin, cfg.FfprobeBin} {
		if _, err := exec.LookPath(bin); err != nil {
			return nil, fmt.Errorf("espeak: required binary %q not found: %w", bin, err)
		}
	}
	return &Engine{config: cfg, logger: logger}, nil
}

// tonePitch maps the requested tone to an espeak-ng pitch (0-99,
// default 50). The tone also nudges the speaking rate.
func tonePitch(tone string) (pitch, rateDelta int) {
	switch tone {
	case "casual":
		return 55, 10
	case "professional":
		return 45, 0
	case "storytelling":
		return 60, -20
	default: // educational
		return 50, -10
	}
}

// Synthesize renders the script to a WAV via espeak-ng, then encodes
// it to MP3 at outPath with ffmpeg.
func (e *Engine) Synthesize(ctx context.Context, req speech.Request, outPath string) error {
	pitch, rateDelta := tonePitch(req.Tone)

	speed := req.Speed
	if speed <= 0 {
		speed = 1.0
	}
	rate := int(float64(e.config.BaseRate+rateDelta) * speed)

	wavPath := outPath + ".wav"
	defer os.Remove(wavPath)

	args := []string{
		"-v", e.config.Voice,
		"-s", strconv.Itoa(rate),
		"-p", strconv.Itoa(pitch),
		"-w", wavPath,
		"--stdin",
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.config.EspeakBin, args...)
	cmd.Stdin = strings.NewReader(req.Script)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("espeak: synthesis failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	stderr.Reset()
	encode := exec.CommandContext(ctx, e.config.FfmpegBin,
		"-y", "-i", wavPath,
		"-filter:a", "loudnorm",
		"-c:a", "libmp3lame", "-q:a", "2",
		outPath,
	)
	encode.Stderr = &stderr
	if err := encode.Run(); err != nil {
		return fmt.Errorf("espeak: mp3 encoding failed: %w (%s)", err, tail(stderr.String()))
	}

	e.logger.Debug("synthesized audio",
		slog.String("out", outPath),
		slog.Int("rate", rate),
		slog.Int("pitch", pitch))
	return nil
}

// Duration reports the audio length in seconds via ffprobe.
func (e *Engine) Duration(ctx context.Context, path string) (float64, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.config.FfprobeBin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("espeak: ffprobe failed: %w (%s)", err, tail(stderr.String()))
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("espeak: parsing ffprobe output %q: %w", stdout.String(), err)
	}
	return seconds, nil
}

// Trim rewrites the file in place so it lasts at most maxSeconds.
// Stream copy, no re-encode, so it is cheap.
func (e *Engine) Trim(ctx context.Context, path string, maxSeconds float64) error {
	current, err := e.Duration(ctx, path)
	if err != nil {
		return err
	}
	if current <= maxSeconds {
		return nil
	}

	trimmed := path + ".trimmed.mp3"
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.config.FfmpegBin,
		"-y", "-i", path,
		"-t", strconv.FormatFloat(maxSeconds, 'f', 2, 64),
		"-c", "copy",
		trimmed,
	)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(trimmed)
		return fmt.Errorf("espeak: trimming failed: %w (%s)", err, tail(stderr.String()))
	}

	if err := os.Rename(trimmed, path); err != nil {
		os.Remove(trimmed)
		return fmt.Errorf("espeak: replacing trimmed file: %w", err)
	}
	return nil
}

// tail returns the last few hundred bytes of command output; ffmpeg
// banners would otherwise drown the actual error.
func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 300 {
		s = "..." + s[len(s)-300:]
	}
	return s
}
