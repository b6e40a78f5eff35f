package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
)

// Environment variables for custom binary paths.
const (
	envFFmpegPath  = "FFMPEG_PATH"
	envFFprobePath = "FFPROBE_PATH"
)

// envProvider abstracts environment and path lookup (for testing).
type envProvider interface {
	Getenv(key string) string
	LookPath(file string) (string, error)
}

// osEnvProvider implements envProvider using os and exec.
type osEnvProvider struct{}

func (osEnvProvider) Getenv(key string) string { return os.Getenv(key) }

func (osEnvProvider) LookPath(file string) (string, error) { return exec.LookPath(file) }

// Compile-time interface verification.
var _ envProvider = osEnvProvider{}

// Resolver locates the ffmpeg and ffprobe binaries.
type Resolver struct {
	env envProvider
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithEnvProvider sets the environment provider (for testing).
func WithEnvProvider(e envProvider) ResolverOption {
	return func(r *Resolver) { r.env = e }
}

// NewResolver creates a Resolver with the given options.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{env: osEnvProvider{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds ffmpeg using the following precedence:
//  1. FFMPEG_PATH environment variable (error if set but invalid)
//  2. System PATH
func (r *Resolver) Resolve() (string, error) {
	if envPath := r.env.Getenv(envFFmpegPath); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%w: %s is set to %q but no binary exists there",
				ErrNotFound, envFFmpegPath, envPath)
		}
		return envPath, nil
	}

	if path, err := r.env.LookPath("ffmpeg"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%w: install it (e.g. apt install ffmpeg / brew install ffmpeg) or set %s",
		ErrNotFound, envFFmpegPath)
}

// ResolveProbe finds ffprobe via FFPROBE_PATH or the system PATH. ffprobe
// is optional: without it, durations are parsed from ffmpeg stderr.
func (r *Resolver) ResolveProbe() (string, bool) {
	if envPath := r.env.Getenv(envFFprobePath); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, true
		}
		return "", false
	}
	if path, err := r.env.LookPath("ffprobe"); err == nil {
		return path, true
	}
	return "", false
}
