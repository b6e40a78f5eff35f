package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// minMajorVersion is the minimum supported ffmpeg version. Older builds
// may lack silencedetect improvements and codec support.
const minMajorVersion = 4

// runOutputFn runs a command and captures its combined output.
type runOutputFn func(ctx context.Context, path string, args []string) (string, error)

// defaultRunOutput is the production implementation.
func defaultRunOutput(ctx context.Context, path string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, path, args...) // #nosec G204 -- path comes from the resolver
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

// VersionChecker verifies ffmpeg version requirements.
type VersionChecker struct {
	run    runOutputFn
	stderr io.Writer
}

// VersionCheckerOption configures a VersionChecker.
type VersionCheckerOption func(*VersionChecker)

// WithRunOutput sets a custom command runner (for testing).
func WithRunOutput(fn runOutputFn) VersionCheckerOption {
	return func(vc *VersionChecker) { vc.run = fn }
}

// WithVersionStderr sets the writer for warning messages.
func WithVersionStderr(w io.Writer) VersionCheckerOption {
	return func(vc *VersionChecker) { vc.stderr = w }
}

// NewVersionChecker creates a VersionChecker with the given options.
func NewVersionChecker(opts ...VersionCheckerOption) *VersionChecker {
	vc := &VersionChecker{
		run:    defaultRunOutput,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(vc)
	}
	return vc
}

// Check verifies that ffmpeg meets the minimum version requirement.
// Prints a warning below the minimum but never fails the run. Returns
// true if a version could be parsed at all.
func (vc *VersionChecker) Check(ctx context.Context, ffmpegPath string) bool {
	output, err := vc.run(ctx, ffmpegPath, []string{"-version"})
	if err != nil && output == "" {
		return false
	}

	// First line reads "ffmpeg version 6.1.1 Copyright..." or "...version n6.1.1".
	line, _, _ := strings.Cut(output, "\n")
	var major int
	if _, err := fmt.Sscanf(line, "ffmpeg version %d", &major); err != nil {
		if _, err := fmt.Sscanf(line, "ffmpeg version n%d", &major); err != nil {
			return false
		}
	}

	if major < minMajorVersion {
		fmt.Fprintf(vc.stderr, "Warning: ffmpeg version %d detected, version %d+ recommended\n",
			major, minMajorVersion)
	}
	return true
}
