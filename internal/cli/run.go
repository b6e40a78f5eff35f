package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-clipsplit/internal/config"
	"github.com/alnah/go-clipsplit/internal/format"
	"github.com/alnah/go-clipsplit/internal/splitter"
)

// MaxParallelJobs caps concurrent job runs. Each run spawns its own
// ffmpeg subprocesses, so the useful ceiling is low.
const MaxParallelJobs = 4

// defaultJobFile is used when no job file argument is given.
const defaultJobFile = "config.toml"

// overrides carries flag values that replace job-file detection settings.
// A nil field means the flag was not set.
type overrides struct {
	noiseDB    *float64
	minSilence *time.Duration
	pad        *time.Duration
}

// RunCmd creates the run command. The env parameter provides injectable
// dependencies for testing.
func RunCmd(env *Env) *cobra.Command {
	var (
		noiseDB    float64
		minSilence time.Duration
		pad        time.Duration
		parallel   int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "run [job.toml ...]",
		Short: "Split recordings into exactly-counted, named clips",
		Long: `Split one long recording per job file into an exact number of labeled
clips, carved at detected silences, plus one combined file.

Each job file names the input recording, the output directory, the clip
names, and the detection tuning. Detection flags override the job file's
[detect] table for every job in the invocation. Multiple job files run
concurrently; their output directories must be distinct.`,
		Example: `  clipsplit run                      # uses ./config.toml
  clipsplit run episode.toml
  clipsplit run --noise-db -35 --pad 100ms episode.toml
  clipsplit run ep1.toml ep2.toml ep3.toml --parallel 3`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ov overrides
			if cmd.Flags().Changed("noise-db") {
				ov.noiseDB = &noiseDB
			}
			if cmd.Flags().Changed("min-silence") {
				ov.minSilence = &minSilence
			}
			if cmd.Flags().Changed("pad") {
				ov.pad = &pad
			}
			return runJobs(cmd, env, args, ov, parallel, verbose)
		},
	}

	cmd.Flags().Float64Var(&noiseDB, "noise-db", config.DefaultNoiseDB, "Silence threshold in dB (overrides job file)")
	cmd.Flags().DurationVar(&minSilence, "min-silence", config.DefaultMinSilence, "Minimum silence duration (overrides job file)")
	cmd.Flags().DurationVar(&pad, "pad", config.DefaultPad, "Padding applied to each clip boundary (overrides job file)")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "Max concurrent jobs (1-4)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List each clip's time range in the summary")

	return cmd
}

// clampParallel constrains the job fan-out to [1, MaxParallelJobs].
func clampParallel(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxParallelJobs {
		return MaxParallelJobs
	}
	return n
}

// runJobs loads every job file, then executes the runs with bounded
// parallelism. Runs share no state beyond the resolved tool; each owns
// its output directory. Summaries print in argument order once all jobs
// finish; warnings stream as they happen, prefixed with the job file.
func runJobs(cmd *cobra.Command, env *Env, args []string, ov overrides, parallel int, verbose bool) error {
	ctx := cmd.Context()

	if len(args) == 0 {
		args = []string{defaultJobFile}
	}

	// Load and validate every job before touching any external tool.
	cfgs := make([]config.Config, len(args))
	for i, path := range args {
		cfg, err := env.ConfigLoader.Load(path)
		if err != nil {
			return err
		}
		cfgs[i] = applyOverrides(cfg, ov)
	}

	ffmpegPath, err := env.FFmpegResolver.Resolve()
	if err != nil {
		return err
	}
	env.FFmpegResolver.CheckVersion(ctx, ffmpegPath)
	ffprobePath, _ := env.FFmpegResolver.ResolveProbe()

	tool, err := env.ToolFactory.NewTool(ffmpegPath, ffprobePath)
	if err != nil {
		return err
	}

	parallel = clampParallel(parallel)
	results := make([]*splitter.Result, len(cfgs))

	var warnMu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, cfg := range cfgs {
		i, cfg := i, cfg
		jobFile := args[i]
		g.Go(func() error {
			warn := func(msg string) {
				warnMu.Lock()
				defer warnMu.Unlock()
				fmt.Fprintf(env.Stderr, "%s: %s\n", jobFile, msg)
			}

			s, err := splitter.New(tool,
				splitter.DetectSettings{
					Enabled:    cfg.DetectEnabled,
					NoiseDB:    cfg.NoiseDB,
					MinSilence: cfg.MinSilence,
					Pad:        cfg.Pad,
				},
				cfg.Format,
				splitter.WithWarnFunc(warn),
			)
			if err != nil {
				return err
			}

			result, err := s.Run(ctx, splitter.Job{
				Input:        cfg.Input,
				OutputDir:    cfg.OutputDir,
				Count:        cfg.Count,
				Names:        cfg.Names,
				CombinedName: cfg.CombinedName,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", jobFile, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, result := range results {
		fmt.Fprintf(env.Stderr, "Wrote %d clips to %s (%s of audio)\n",
			len(result.Exports), cfgs[i].OutputDir, format.Duration(result.Duration))
		if verbose {
			for _, e := range result.Exports {
				fmt.Fprintf(env.Stderr, "  %-20s %s\n", e.Name, e.Segment)
			}
		}
		fmt.Fprintf(env.Stderr, "Combined audio: %s\n", result.Combined)
	}
	return nil
}

// applyOverrides replaces job-file detection settings with set flags.
func applyOverrides(cfg config.Config, ov overrides) config.Config {
	if ov.noiseDB != nil {
		cfg.NoiseDB = *ov.noiseDB
	}
	if ov.minSilence != nil {
		cfg.MinSilence = *ov.minSilence
	}
	if ov.pad != nil {
		cfg.Pad = *ov.pad
	}
	return cfg
}
