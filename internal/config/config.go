// Package config loads the application configuration once at startup.
//
// Every tunable lives in one immutable Config struct that main.go passes
// down to the components that need it. Nothing else in the codebase reads
// the process environment — if a component needs a knob, it gets a field
// here and receives it at construction time.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the EduCast Studio server.
type Config struct {
	Port         int
	DBPath       string
	UploadDir    string
	JWTSecret    string
	TokenTTL     time.Duration
	AdminEmail   string // optional: seed an admin account at startup
	AdminPass    string
	Generation   GenerationConfig
	LogLevelName string
}

// GenerationConfig bounds the podcast generation pool.
type GenerationConfig struct {
	Workers    int           // concurrent generation jobs
	QueueSize  int           // pending jobs admitted beyond the running ones
	JobTimeout time.Duration // hard cap per generation job
	EspeakBin  string
	FfmpegBin  string
	FfprobeBin string
}

// Load reads configuration from environment variables, with a .env file as
// an optional source (ignored when absent).
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	ttlHours, err := getInt("JWT_EXPIRATION_HOURS", 24)
	if err != nil {
		return nil, err
	}
	workers, err := getInt("GENERATION_WORKERS", 2)
	if err != nil {
		return nil, err
	}
	queue, err := getInt("GENERATION_QUEUE_SIZE", 16)
	if err != nil {
		return nil, err
	}
	timeoutSec, err := getInt("GENERATION_TIMEOUT_SECONDS", 180)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:         port,
		DBPath:       getEnv("DB_PATH", "data/educast.db"),
		UploadDir:    getEnv("UPLOAD_DIR", "static/audio"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenTTL:     time.Duration(ttlHours) * time.Hour,
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),
		AdminPass:    os.Getenv("ADMIN_PASSWORD"),
		LogLevelName: getEnv("LOG_LEVEL", "info"),
		Generation: GenerationConfig{
			Workers:    workers,
			QueueSize:  queue,
			JobTimeout: time.Duration(timeoutSec) * time.Second,
			EspeakBin:  getEnv("ESPEAK_BIN", "espeak-ng"),
			FfmpegBin:  getEnv("FFMPEG_BIN", "ffmpeg"),
			FfprobeBin: getEnv("FFPROBE_BIN", "ffprobe"),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("config: " + key + " must be an integer, got " + strconv.Quote(v))
	}
	return n, nil
}
