package media

import (
	"context"
	"time"
)

// Tool is the gateway to the external media toolchain. The pipeline
// depends only on these four operations and their contracts, not on any
// particular tool's invocation syntax. All calls are synchronous; a
// non-zero tool exit aborts the whole run.
type Tool interface {
	// ProbeDuration returns the total duration of the media file.
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)

	// DetectSilence runs a silence-detection pass and returns its raw
	// diagnostic text for downstream parsing.
	DetectSilence(ctx context.Context, path string, noiseDB float64, minSilence time.Duration) (string, error)

	// Extract writes exactly the [start, end) range of src to dst,
	// encoded per format.
	Extract(ctx context.Context, src, dst string, start, end time.Duration, format Format) error

	// Concatenate writes the ordered concatenation of paths to dst.
	Concatenate(ctx context.Context, paths []string, dst string) error
}

// WAVConverter is an optional capability: tools that implement it can
// produce a mono 16kHz reference WAV, which stabilizes silence detection
// on compressed or multi-channel sources.
type WAVConverter interface {
	// ConvertToWAV decodes src to a reference WAV inside dir and returns
	// the new file's path.
	ConvertToWAV(ctx context.Context, src, dir string) (string, error)
}
