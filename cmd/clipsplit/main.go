package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/go-clipsplit/internal/cli"
	"github.com/alnah/go-clipsplit/internal/config"
	"github.com/alnah/go-clipsplit/internal/ffmpeg"
	"github.com/alnah/go-clipsplit/internal/media"
	"github.com/alnah/go-clipsplit/internal/segment"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitGeneral   = 1
	ExitUsage     = 2
	ExitSetup     = 3
	ExitConfig    = 4
	ExitDetection = 5
	ExitExport    = 6
	ExitInterrupt = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env := cli.DefaultEnv()

	rootCmd := &cobra.Command{
		Use:     "clipsplit",
		Short:   "Carve long recordings into exactly-counted, named clips",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.RunCmd(env))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Interrupt.
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Usage errors: Cobra flag/arg parsing.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Setup errors: external toolchain unavailable.
	if errors.Is(err, ffmpeg.ErrNotFound) {
		return ExitSetup
	}

	// Configuration errors: caught before the pipeline starts.
	if errors.Is(err, config.ErrConfig) || errors.Is(err, media.ErrUnsupportedFormat) ||
		errors.Is(err, segment.ErrInvalidCount) {
		return ExitConfig
	}

	// Detection errors: the recording doesn't yield the requested clips.
	if errors.Is(err, segment.ErrNoSpeech) || errors.Is(err, segment.ErrInsufficientSegments) ||
		errors.Is(err, media.ErrProbeFailed) || errors.Is(err, media.ErrDetectFailed) ||
		errors.Is(err, media.ErrConvertFailed) {
		return ExitDetection
	}

	// Export errors: the tool failed writing clips or the combined file.
	if errors.Is(err, media.ErrExtractFailed) || errors.Is(err, media.ErrConcatFailed) {
		return ExitExport
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate
// Cobra usage errors. Cobra doesn't expose typed errors, so string
// matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",
	"unknown flag",
	"unknown shorthand",
	"unknown command",
	"flag needs an argument",
	"invalid argument",
	"accepts ",
	"requires at least",
	"requires at most",
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
