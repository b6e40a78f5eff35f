package media_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-clipsplit/internal/media"
)

type call struct {
	name string
	args []string
}

// fakeRunner records every invocation and replies from the configured
// functions. Unconfigured calls succeed with empty output.
type fakeRunner struct {
	calls    []call
	combined func(name string, args []string) ([]byte, error)
	output   func(name string, args []string) ([]byte, error)
}

func (r *fakeRunner) CombinedOutput(_ context.Context, name string, args []string) ([]byte, error) {
	r.calls = append(r.calls, call{name: name, args: args})
	if r.combined != nil {
		return r.combined(name, args)
	}
	return nil, nil
}

func (r *fakeRunner) Output(_ context.Context, name string, args []string) ([]byte, error) {
	r.calls = append(r.calls, call{name: name, args: args})
	if r.output != nil {
		return r.output(name, args)
	}
	return nil, nil
}

var _ media.CommandRunner = (*fakeRunner)(nil)

func newTool(t *testing.T, runner *fakeRunner, opts ...media.ToolOption) *media.FFmpegTool {
	t.Helper()
	opts = append(opts, media.WithCommandRunner(runner))
	tool, err := media.NewFFmpegTool("/usr/bin/ffmpeg", opts...)
	if err != nil {
		t.Fatalf("NewFFmpegTool() error = %v", err)
	}
	return tool
}

func TestNewFFmpegTool_EmptyPath(t *testing.T) {
	t.Parallel()
	if _, err := media.NewFFmpegTool(""); err == nil {
		t.Error("NewFFmpegTool(\"\") error = nil, want error")
	}
}

func TestFFmpegTool_ProbeDuration_FFprobe(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		output: func(_ string, _ []string) ([]byte, error) {
			return []byte("90.5\n"), nil
		},
	}
	tool := newTool(t, runner, media.WithFFprobePath("/usr/bin/ffprobe"))

	got, err := tool.ProbeDuration(context.Background(), "in.mp3")
	if err != nil {
		t.Fatalf("ProbeDuration() error = %v", err)
	}
	if want := 90500 * time.Millisecond; got != want {
		t.Errorf("ProbeDuration() = %v, want %v", got, want)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(runner.calls))
	}
	c := runner.calls[0]
	if c.name != "/usr/bin/ffprobe" {
		t.Errorf("invoked %q, want ffprobe", c.name)
	}
	want := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"in.mp3",
	}
	if !slices.Equal(c.args, want) {
		t.Errorf("args = %v, want %v", c.args, want)
	}
}

func TestFFmpegTool_ProbeDuration_FFprobeGarbage(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		output: func(_ string, _ []string) ([]byte, error) {
			return []byte("N/A"), nil
		},
	}
	tool := newTool(t, runner, media.WithFFprobePath("/usr/bin/ffprobe"))

	if _, err := tool.ProbeDuration(context.Background(), "in.mp3"); !errors.Is(err, media.ErrProbeFailed) {
		t.Errorf("ProbeDuration() error = %v, want ErrProbeFailed", err)
	}
}

func TestFFmpegTool_ProbeDuration_FFmpegFallback(t *testing.T) {
	t.Parallel()

	// FFmpeg prints the banner to stderr and exits non-zero for the null
	// muxer pass; the duration must still come through.
	runner := &fakeRunner{
		combined: func(_ string, _ []string) ([]byte, error) {
			out := "Input #0, mp3, from 'in.mp3':\n  Duration: 00:04:32.16, start: 0.0, bitrate: 128 kb/s\n"
			return []byte(out), errors.New("exit status 1")
		},
	}
	tool := newTool(t, runner)

	got, err := tool.ProbeDuration(context.Background(), "in.mp3")
	if err != nil {
		t.Fatalf("ProbeDuration() error = %v", err)
	}
	if want := 4*time.Minute + 32*time.Second + 160*time.Millisecond; got != want {
		t.Errorf("ProbeDuration() = %v, want %v", got, want)
	}

	c := runner.calls[0]
	if want := []string{"-i", "in.mp3", "-f", "null", "-"}; !slices.Equal(c.args, want) {
		t.Errorf("args = %v, want %v", c.args, want)
	}
}

func TestFFmpegTool_ProbeDuration_NoOutput(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		combined: func(_ string, _ []string) ([]byte, error) {
			return nil, errors.New("exec: not found")
		},
	}
	tool := newTool(t, runner)

	if _, err := tool.ProbeDuration(context.Background(), "in.mp3"); !errors.Is(err, media.ErrProbeFailed) {
		t.Errorf("ProbeDuration() error = %v, want ErrProbeFailed", err)
	}
}

func TestFFmpegTool_DetectSilence(t *testing.T) {
	t.Parallel()

	log := "[silencedetect @ 0x1] silence_start: 2.5\n[silencedetect @ 0x1] silence_end: 3.1\n"
	runner := &fakeRunner{
		combined: func(_ string, _ []string) ([]byte, error) {
			// Non-zero exit with usable output must not be an error.
			return []byte(log), errors.New("exit status 1")
		},
	}
	tool := newTool(t, runner)

	got, err := tool.DetectSilence(context.Background(), "in.wav", -30, 60*time.Millisecond)
	if err != nil {
		t.Fatalf("DetectSilence() error = %v", err)
	}
	if got != log {
		t.Errorf("DetectSilence() = %q, want %q", got, log)
	}

	c := runner.calls[0]
	want := []string{
		"-i", "in.wav",
		"-af", "silencedetect=noise=-30dB:d=0.060",
		"-f", "null",
		"-",
	}
	if !slices.Equal(c.args, want) {
		t.Errorf("args = %v, want %v", c.args, want)
	}
}

func TestFFmpegTool_DetectSilence_Fails(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		combined: func(_ string, _ []string) ([]byte, error) {
			return nil, errors.New("exec: not found")
		},
	}
	tool := newTool(t, runner)

	if _, err := tool.DetectSilence(context.Background(), "in.wav", -30, time.Second); !errors.Is(err, media.ErrDetectFailed) {
		t.Errorf("DetectSilence() error = %v, want ErrDetectFailed", err)
	}
}

func TestFFmpegTool_ConvertToWAV(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	tool := newTool(t, runner)

	got, err := tool.ConvertToWAV(context.Background(), "/music/lesson one.m4a", "/tmp/work")
	if err != nil {
		t.Fatalf("ConvertToWAV() error = %v", err)
	}
	if want := filepath.Join("/tmp/work", "lesson one_mono16k.wav"); got != want {
		t.Errorf("ConvertToWAV() = %q, want %q", got, want)
	}

	c := runner.calls[0]
	want := []string{
		"-y",
		"-i", "/music/lesson one.m4a",
		"-ac", "1",
		"-ar", "16000",
		"-acodec", "pcm_s16le",
		got,
	}
	if !slices.Equal(c.args, want) {
		t.Errorf("args = %v, want %v", c.args, want)
	}
}

func TestFFmpegTool_Extract(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	tool := newTool(t, runner)

	err := tool.Extract(context.Background(), "in.mp3", "out/clip.mp3",
		2*time.Second, 6200*time.Millisecond, media.FormatMP3)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	c := runner.calls[0]
	want := []string{
		"-y",
		"-i", "in.mp3",
		"-ss", "00:00:02.000",
		"-to", "00:00:06.200",
		"-acodec", "libmp3lame", "-q:a", "2",
		"out/clip.mp3",
	}
	if !slices.Equal(c.args, want) {
		t.Errorf("args = %v, want %v", c.args, want)
	}
}

func TestFFmpegTool_Extract_Fails(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		combined: func(_ string, _ []string) ([]byte, error) {
			return []byte("out/clip.mp3: No space left on device"), errors.New("exit status 1")
		},
	}
	tool := newTool(t, runner)

	err := tool.Extract(context.Background(), "in.mp3", "out/clip.mp3", 0, time.Second, media.FormatCopy)
	if !errors.Is(err, media.ErrExtractFailed) {
		t.Errorf("Extract() error = %v, want ErrExtractFailed", err)
	}
}

func TestFFmpegTool_Concatenate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dst := filepath.Join(dir, "combined.mp3")
	listPath := filepath.Join(dir, media.ConcatListName)

	var seenList string
	runner := &fakeRunner{
		combined: func(_ string, args []string) ([]byte, error) {
			// The list file must exist while ffmpeg runs.
			data, err := os.ReadFile(listPath)
			if err != nil {
				return nil, fmt.Errorf("list file missing during concat: %w", err)
			}
			seenList = string(data)
			return nil, nil
		},
	}
	tool := newTool(t, runner)

	clips := []string{
		filepath.Join(dir, "clip one.mp3"),
		filepath.Join(dir, "it's.mp3"),
	}
	if err := tool.Concatenate(context.Background(), clips, dst); err != nil {
		t.Fatalf("Concatenate() error = %v", err)
	}

	for _, clip := range clips {
		base := strings.ReplaceAll(filepath.Base(clip), "'", `\'`)
		if !strings.Contains(seenList, base) {
			t.Errorf("list file %q does not mention %q", seenList, base)
		}
	}
	if !strings.HasPrefix(seenList, "file '") {
		t.Errorf("list file %q not in concat demuxer syntax", seenList)
	}

	c := runner.calls[0]
	want := []string{"-y", "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", dst}
	if !slices.Equal(c.args, want) {
		t.Errorf("args = %v, want %v", c.args, want)
	}

	if _, err := os.Stat(listPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("list file still present after success: %v", err)
	}
}

func TestFFmpegTool_Concatenate_CleansUpOnFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dst := filepath.Join(dir, "combined.mp3")

	runner := &fakeRunner{
		combined: func(_ string, _ []string) ([]byte, error) {
			return []byte("Invalid data found"), errors.New("exit status 1")
		},
	}
	tool := newTool(t, runner)

	err := tool.Concatenate(context.Background(), []string{filepath.Join(dir, "a.mp3")}, dst)
	if !errors.Is(err, media.ErrConcatFailed) {
		t.Fatalf("Concatenate() error = %v, want ErrConcatFailed", err)
	}
	if _, err := os.Stat(filepath.Join(dir, media.ConcatListName)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("list file still present after failure: %v", err)
	}
}

func TestFFmpegTool_Concatenate_NoClips(t *testing.T) {
	t.Parallel()

	tool := newTool(t, &fakeRunner{})
	if err := tool.Concatenate(context.Background(), nil, "out.mp3"); !errors.Is(err, media.ErrConcatFailed) {
		t.Errorf("Concatenate() error = %v, want ErrConcatFailed", err)
	}
}

func TestParseDurationFromOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		output  string
		want    time.Duration
		wantErr bool
	}{
		{
			name:   "duration banner",
			output: "  Duration: 01:02:03.45, start: 0.0\n",
			want:   time.Hour + 2*time.Minute + 3*time.Second + 450*time.Millisecond,
		},
		{
			name:   "progress line fallback",
			output: "size=1024 time=00:00:10.5 bitrate=128\nsize=2048 time=00:00:21.75 bitrate=128\n",
			want:   21*time.Second + 750*time.Millisecond,
		},
		{
			name:   "microsecond fraction truncates to milliseconds",
			output: "Duration: 00:00:01.234567\n",
			want:   time.Second + 234*time.Millisecond,
		},
		{
			name:    "nothing to parse",
			output:  "some unrelated text",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := media.ParseDurationFromOutput(tt.output)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseDurationFromOutput() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDurationFromOutput() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseDurationFromOutput() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00.000"},
		{6200 * time.Millisecond, "00:00:06.200"},
		{time.Minute + 30*time.Second, "00:01:30.000"},
		{time.Hour + 15*time.Minute + 2*time.Second + 5*time.Millisecond, "01:15:02.005"},
	}

	for _, tt := range tests {
		if got := media.FormatTime(tt.d); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
