package speech

import "context"

// Request carries everything the engine needs to voice one script.
type Request struct {
	Script string
	Tone   string
	Speed  float64
}

// Engine represents the core interface for turning a podcast script
// into an audio file on disk.
type Engine interface {
	// Synthesize renders the script to outPath. The file may run long;
	// Trim cuts it down afterwards.
	Synthesize(ctx context.Context, req Request, outPath string) error

	// Duration reports the length of an audio file in seconds.
	Duration(ctx context.Context, path string) (float64, error)

	// Trim rewrites the file at path so it lasts at most maxSeconds.
	Trim(ctx context.Context, path string, maxSeconds float64) error
}
