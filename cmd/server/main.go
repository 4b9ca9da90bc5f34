// Package main is the entry point for the EduCast Studio server.
//
// Its job is deliberately small: load configuration, set up logging,
// prepare the data directories, construct the speech engine and hand
// everything to internal/server. All actual logic lives in the
// internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/educast/studio/internal/config"
	"github.com/educast/studio/internal/server"
	"github.com/educast/studio/internal/speech/espeak"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevelName),
	}))

	// The database file and the audio upload dir must exist before
	// anything opens them.
	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.UploadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	speechCfg := espeak.DefaultConfig()
	speechCfg.EspeakBin = cfg.Generation.EspeakBin
	speechCfg.FfmpegBin = cfg.Generation.FfmpegBin
	speechCfg.FfprobeBin = cfg.Generation.FfprobeBin

	engine, err := espeak.New(speechCfg, logger)
	if err != nil {
		logger.Error("speech engine unavailable; install espeak-ng, ffmpeg and ffprobe",
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	srv, err := server.New(cfg, engine, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the process receives SIGINT or SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
