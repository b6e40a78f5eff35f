package cli

import (
	"context"
	"io"
	"os"

	"github.com/alnah/go-clipsplit/internal/config"
	"github.com/alnah/go-clipsplit/internal/ffmpeg"
	"github.com/alnah/go-clipsplit/internal/media"
)

// Env holds injectable dependencies for CLI commands. This is the central
// injection point for testing commands in isolation.
//
// All fields have production defaults via DefaultEnv. Tests override
// specific fields with the With* options.
type Env struct {
	Stderr io.Writer

	ConfigLoader   ConfigLoader
	FFmpegResolver FFmpegResolver
	ToolFactory    ToolFactory
}

// ConfigLoader loads job configurations.
type ConfigLoader interface {
	Load(path string) (config.Config, error)
}

// FFmpegResolver locates the external media binaries.
type FFmpegResolver interface {
	Resolve() (string, error)
	ResolveProbe() (string, bool)
	CheckVersion(ctx context.Context, ffmpegPath string)
}

// ToolFactory creates media tool gateways.
type ToolFactory interface {
	NewTool(ffmpegPath, ffprobePath string) (media.Tool, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) { e.Stderr = w }
}

// WithConfigLoader sets the job config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) { e.ConfigLoader = l }
}

// WithFFmpegResolver sets the ffmpeg resolver.
func WithFFmpegResolver(r FFmpegResolver) EnvOption {
	return func(e *Env) { e.FFmpegResolver = r }
}

// WithToolFactory sets the media tool factory.
func WithToolFactory(f ToolFactory) EnvOption {
	return func(e *Env) { e.ToolFactory = f }
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stderr:         os.Stderr,
		ConfigLoader:   &defaultConfigLoader{},
		FFmpegResolver: &defaultFFmpegResolver{},
		ToolFactory:    &defaultToolFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

type defaultConfigLoader struct{}

func (defaultConfigLoader) Load(path string) (config.Config, error) {
	return config.Load(path)
}

type defaultFFmpegResolver struct{}

func (defaultFFmpegResolver) Resolve() (string, error) {
	return ffmpeg.NewResolver().Resolve()
}

func (defaultFFmpegResolver) ResolveProbe() (string, bool) {
	return ffmpeg.NewResolver().ResolveProbe()
}

func (defaultFFmpegResolver) CheckVersion(ctx context.Context, ffmpegPath string) {
	ffmpeg.NewVersionChecker().Check(ctx, ffmpegPath)
}

type defaultToolFactory struct{}

func (defaultToolFactory) NewTool(ffmpegPath, ffprobePath string) (media.Tool, error) {
	var opts []media.ToolOption
	if ffprobePath != "" {
		opts = append(opts, media.WithFFprobePath(ffprobePath))
	}
	return media.NewFFmpegTool(ffmpegPath, opts...)
}

// Compile-time interface verification.
var (
	_ ConfigLoader   = (*defaultConfigLoader)(nil)
	_ FFmpegResolver = (*defaultFFmpegResolver)(nil)
	_ ToolFactory    = (*defaultToolFactory)(nil)
)
