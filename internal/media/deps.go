package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// commandRunner executes external commands. FFmpeg writes diagnostics to
// stderr even on success, so both capture styles are needed.
type commandRunner interface {
	// CombinedOutput returns interleaved stdout and stderr.
	CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error)
	// Output returns stdout only; stderr is folded into the error.
	Output(ctx context.Context, name string, args []string) ([]byte, error)
}

// osCommandRunner implements commandRunner using exec.CommandContext.
type osCommandRunner struct{}

func (osCommandRunner) CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error) {
	// #nosec G204 -- name and args are constructed by the tool, not user input
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

func (osCommandRunner) Output(ctx context.Context, name string, args []string) ([]byte, error) {
	// #nosec G204 -- name and args are constructed by the tool, not user input
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
