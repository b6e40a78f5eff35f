package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-clipsplit/internal/ffmpeg"
)

// Compile-time interface implementation checks.
var (
	_ Tool         = (*FFmpegTool)(nil)
	_ WAVConverter = (*FFmpegTool)(nil)
)

// concatListName is the temporary concat demuxer list file. It lives next
// to the combined output and is removed on both success and failure.
const concatListName = ".clipsplit_concat.txt"

// FFmpegTool implements Tool by invoking ffmpeg (and ffprobe when
// available) as subprocesses.
type FFmpegTool struct {
	ffmpegPath  string
	ffprobePath string // empty: fall back to parsing ffmpeg stderr

	cmd commandRunner
}

// ToolOption configures an FFmpegTool.
type ToolOption func(*FFmpegTool)

// WithFFprobePath sets the ffprobe binary used for duration probing.
// Without it, duration is parsed from ffmpeg's own stderr.
func WithFFprobePath(path string) ToolOption {
	return func(t *FFmpegTool) {
		t.ffprobePath = path
	}
}

// WithCommandRunner sets the command runner (for testing).
func WithCommandRunner(r commandRunner) ToolOption {
	return func(t *FFmpegTool) {
		t.cmd = r
	}
}

// NewFFmpegTool creates an FFmpegTool using the given ffmpeg binary.
func NewFFmpegTool(ffmpegPath string, opts ...ToolOption) (*FFmpegTool, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}
	t := &FFmpegTool{
		ffmpegPath: ffmpegPath,
		cmd:        osCommandRunner{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// ProbeDuration returns the media duration. Prefers ffprobe's machine
// readable output; falls back to scraping ffmpeg stderr.
func (t *FFmpegTool) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	if t.ffprobePath != "" {
		args := []string{
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			path,
		}
		out, err := t.cmd.Output(ctx, t.ffprobePath, args)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrProbeFailed, err)
		}
		secs, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: unexpected ffprobe output %q", ErrProbeFailed, strings.TrimSpace(string(out)))
		}
		return time.Duration(secs * float64(time.Second)), nil
	}

	// FFmpeg returns non-zero for a null-muxed pass but still prints the
	// duration banner, so parse the output regardless.
	out, err := t.cmd.CombinedOutput(ctx, t.ffmpegPath, []string{"-i", path, "-f", "null", "-"})
	if err != nil && len(out) == 0 {
		return 0, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}
	d, err := parseDurationFromOutput(string(out))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}
	return d, nil
}

// DetectSilence runs the silencedetect filter and returns the raw
// diagnostic text. FFmpeg may exit non-zero while still emitting the
// detection lines, so output wins over exit status.
func (t *FFmpegTool) DetectSilence(ctx context.Context, path string, noiseDB float64, minSilence time.Duration) (string, error) {
	args := []string{
		"-i", path,
		"-af", fmt.Sprintf("silencedetect=noise=%gdB:d=%.3f", noiseDB, minSilence.Seconds()),
		"-f", "null",
		"-",
	}
	out, err := t.cmd.CombinedOutput(ctx, t.ffmpegPath, args)
	if err != nil && len(out) == 0 {
		return "", fmt.Errorf("%w: %v", ErrDetectFailed, err)
	}
	return string(out), nil
}

// ConvertToWAV decodes src to a mono 16kHz PCM reference WAV inside dir.
func (t *FFmpegTool) ConvertToWAV(ctx context.Context, src, dir string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	dst := filepath.Join(dir, stem+"_mono16k.wav")
	args := []string{
		"-y",
		"-i", src,
		"-ac", "1",
		"-ar", "16000",
		"-acodec", "pcm_s16le",
		dst,
	}
	out, err := t.cmd.CombinedOutput(ctx, t.ffmpegPath, args)
	if err != nil {
		return "", fmt.Errorf("%w: %v\nOutput: %s", ErrConvertFailed, err, out)
	}
	return dst, nil
}

// Extract writes the [start, end) range of src to dst.
func (t *FFmpegTool) Extract(ctx context.Context, src, dst string, start, end time.Duration, format Format) error {
	args := []string{
		"-y",
		"-i", src,
		"-ss", formatTime(start),
		"-to", formatTime(end),
	}
	args = append(args, format.codecArgs()...)
	args = append(args, dst)

	out, err := t.cmd.CombinedOutput(ctx, t.ffmpegPath, args)
	if err != nil {
		return fmt.Errorf("%w: %s: %v\nOutput: %s", ErrExtractFailed, filepath.Base(dst), err, out)
	}
	return nil
}

// Concatenate writes the ordered concatenation of paths to dst using the
// concat demuxer. The list file is written next to dst and removed on
// every return path.
func (t *FFmpegTool) Concatenate(ctx context.Context, paths []string, dst string) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: no clips to combine", ErrConcatFailed)
	}

	listPath := filepath.Join(filepath.Dir(dst), concatListName)
	if err := writeConcatList(listPath, paths); err != nil {
		return fmt.Errorf("%w: %v", ErrConcatFailed, err)
	}
	defer func() { _ = os.Remove(listPath) }()

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		dst,
	}
	out, err := t.cmd.CombinedOutput(ctx, t.ffmpegPath, args)
	if err != nil {
		return fmt.Errorf("%w: %v\nOutput: %s", ErrConcatFailed, err, out)
	}
	return nil
}

// writeConcatList writes a concat demuxer list file. Paths are
// absolutized and single quotes escaped per the demuxer's quoting rules.
func writeConcatList(listPath string, paths []string) error {
	var b strings.Builder
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		escaped := strings.ReplaceAll(filepath.ToSlash(abs), "'", `\'`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	return os.WriteFile(listPath, []byte(b.String()), 0644) // #nosec G306 -- transient list file
}

// formatTime formats a duration for -ss/-to arguments as HH:MM:SS.mmm.
func formatTime(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := d.Seconds() - float64(h*3600+m*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}

// parseDurationFromOutput extracts the duration from ffmpeg stderr.
// Looks for "Duration: HH:MM:SS.ms", falling back to the last
// "time=HH:MM:SS.ms" progress line.
func parseDurationFromOutput(output string) (time.Duration, error) {
	if m := durationRe.FindStringSubmatch(output); m != nil {
		return parseTimeComponents(m[1], m[2], m[3], m[4]), nil
	}
	all := timeRe.FindAllStringSubmatch(output, -1)
	if len(all) > 0 {
		m := all[len(all)-1]
		return parseTimeComponents(m[1], m[2], m[3], m[4]), nil
	}
	return 0, fmt.Errorf("no duration in ffmpeg output")
}

var (
	durationRe = regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+)\.(\d+)`)
	timeRe     = regexp.MustCompile(`time=(\d+):(\d+):(\d+)\.(\d+)`)
)

// parseTimeComponents converts HH:MM:SS.frac strings to a Duration. The
// fractional part may carry 1-6+ digits and is normalized to milliseconds.
func parseTimeComponents(hours, minutes, seconds, fractional string) time.Duration {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)

	frac, _ := strconv.Atoi(fractional)
	ms := frac
	switch n := len(fractional); {
	case n == 1:
		ms = frac * 100
	case n == 2:
		ms = frac * 10
	case n > 3:
		for i := n; i > 3; i-- {
			ms /= 10
		}
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond
}
