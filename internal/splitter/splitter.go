// Package splitter orchestrates the clip-splitting pipeline: probe,
// detect, derive segments, fit them to the requested count, export each
// named clip, and combine. Each stage consumes the complete output of the
// previous one; any failure aborts the run.
package splitter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-clipsplit/internal/media"
	"github.com/alnah/go-clipsplit/internal/segment"
)

// clipsSubdir holds the individual clip files inside the output directory.
const clipsSubdir = "clips"

// DetectSettings tunes the silence-detection stage.
type DetectSettings struct {
	Enabled    bool          // false: split evenly instead of detecting
	NoiseDB    float64       // silence threshold in dB
	MinSilence time.Duration // minimum silence the detector reports
	Pad        time.Duration // widening applied to each speech segment
}

// Job describes one splitting run.
type Job struct {
	Input        string   // source media file
	OutputDir    string   // run-private output directory
	Count        int      // exact number of clips required
	Names        []string // one name per clip slot, order-significant
	CombinedName string   // combined file name, extension included
}

// Export describes one written clip.
type Export struct {
	Name    string
	Segment segment.Interval
	Path    string
}

// Result summarizes a completed run.
type Result struct {
	Duration  time.Duration
	Segments  []segment.Interval
	Exports   []Export
	Combined  string
	Truncated bool // merging alone could not reach the count; trailing segments dropped
}

// WarnFunc receives non-fatal degradation notices during a run.
type WarnFunc func(msg string)

// Splitter runs the pipeline against a media tool gateway.
type Splitter struct {
	tool   media.Tool
	detect DetectSettings
	format media.Format

	inverter *segment.Inverter
	padder   *segment.Padder
	fitter   *segment.Fitter
	warn     WarnFunc
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithWarnFunc sets a callback for degradation warnings. Default: discard.
func WithWarnFunc(fn WarnFunc) Option {
	return func(s *Splitter) { s.warn = fn }
}

// WithInverter sets the speech inverter (for pinning epsilon in tests).
func WithInverter(inv *segment.Inverter) Option {
	return func(s *Splitter) { s.inverter = inv }
}

// WithPadder sets the padding applier.
func WithPadder(p *segment.Padder) Option {
	return func(s *Splitter) { s.padder = p }
}

// WithFitter sets the count fitter (for pinning thresholds in tests).
func WithFitter(f *segment.Fitter) Option {
	return func(s *Splitter) { s.fitter = f }
}

// New creates a Splitter over the given tool and settings.
func New(tool media.Tool, detect DetectSettings, format media.Format, opts ...Option) (*Splitter, error) {
	if tool == nil {
		return nil, fmt.Errorf("media tool cannot be nil")
	}
	s := &Splitter{
		tool:     tool,
		detect:   detect,
		format:   format,
		inverter: segment.NewInverter(),
		padder:   segment.NewPadder(detect.Pad),
		fitter:   segment.NewFitter(),
		warn:     func(string) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run executes the full pipeline for one job.
func (s *Splitter) Run(ctx context.Context, job Job) (*Result, error) {
	if len(job.Names) < job.Count {
		return nil, fmt.Errorf("need %d clip names, have %d", job.Count, len(job.Names))
	}

	clipsDir := filepath.Join(job.OutputDir, clipsSubdir)
	if err := os.MkdirAll(clipsDir, 0750); err != nil { // #nosec G301 -- user output dir
		return nil, fmt.Errorf("cannot create output directory: %w", err)
	}

	// Detection runs against a mono 16kHz reference WAV when the tool can
	// produce one; extraction always reads the original source.
	detectInput := job.Input
	if s.detect.Enabled {
		if conv, ok := s.tool.(media.WAVConverter); ok {
			wav, err := conv.ConvertToWAV(ctx, job.Input, job.OutputDir)
			if err != nil {
				return nil, err
			}
			detectInput = wav
		}
	}

	total, err := s.tool.ProbeDuration(ctx, detectInput)
	if err != nil {
		return nil, err
	}

	var (
		segs      []segment.Interval
		truncated bool
	)
	if s.detect.Enabled {
		segs, truncated, err = s.detectSegments(ctx, detectInput, total, job.Count)
	} else {
		segs, err = segment.SplitEvenly(total, job.Count)
	}
	if err != nil {
		return nil, err
	}
	if truncated {
		s.warn(fmt.Sprintf(
			"Warning: merging stopped at %d segments; clips beyond %d were dropped",
			job.Count, job.Count))
	}

	exports, err := s.exportSegments(ctx, job, clipsDir, segs)
	if err != nil {
		return nil, err
	}

	combined := filepath.Join(job.OutputDir, job.CombinedName)
	paths := make([]string, len(exports))
	for i, e := range exports {
		paths[i] = e.Path
	}
	if err := s.tool.Concatenate(ctx, paths, combined); err != nil {
		return nil, err
	}

	return &Result{
		Duration:  total,
		Segments:  segs,
		Exports:   exports,
		Combined:  combined,
		Truncated: truncated,
	}, nil
}

// detectSegments runs silence detection and derives exactly count
// segments from its diagnostic output.
func (s *Splitter) detectSegments(ctx context.Context, path string, total time.Duration, count int) ([]segment.Interval, bool, error) {
	log, err := s.tool.DetectSilence(ctx, path, s.detect.NoiseDB, s.detect.MinSilence)
	if err != nil {
		return nil, false, err
	}

	starts, ends := segment.ParseSilenceLog(log)
	silences := segment.PairSilences(starts, ends, total)
	speech, err := s.inverter.Speech(silences, total)
	if err != nil {
		return nil, false, err
	}
	padded := s.padder.Apply(speech, total)
	if len(padded) == 0 {
		return nil, false, fmt.Errorf("%w: every segment fell below the minimum length", segment.ErrNoSpeech)
	}

	return s.fitter.Fit(padded, count)
}

// exportSegments extracts one clip per segment, strictly in order: the
// combined file depends on file order matching segment order.
func (s *Splitter) exportSegments(ctx context.Context, job Job, clipsDir string, segs []segment.Interval) ([]Export, error) {
	ext := s.format.Extension(filepath.Ext(job.Input))
	exports := make([]Export, 0, len(segs))
	for i, seg := range segs {
		name := job.Names[i]
		dst := filepath.Join(clipsDir, name+"."+ext)
		if err := s.tool.Extract(ctx, job.Input, dst, seg.Start, seg.End, s.format); err != nil {
			return nil, err
		}
		exports = append(exports, Export{Name: name, Segment: seg, Path: dst})
	}
	return exports, nil
}
