// Package config loads and validates TOML job files. A job file fully
// describes one splitting run: source file, detection tuning, clip count
// and names, and output layout. Every violation is caught here, before
// any external tool is invoked.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/alnah/go-clipsplit/internal/media"
)

// Detection defaults, matching the job file's [detect] table.
const (
	DefaultNoiseDB    = -30.0
	DefaultMinSilence = 60 * time.Millisecond
	DefaultPad        = 70 * time.Millisecond
)

// Config is a fully validated and resolved job configuration. All paths
// are absolute; all defaults are applied.
type Config struct {
	// [general]
	Input        string
	OutputDir    string
	Format       media.Format
	CombinedName string

	// [detect]
	DetectEnabled bool
	NoiseDB       float64
	MinSilence    time.Duration
	Pad           time.Duration

	// [clips]
	Count int
	Names []string
}

// rawConfig mirrors the job file's TOML structure before validation.
// Pointer fields distinguish "absent" from zero values.
type rawConfig struct {
	General rawGeneral `toml:"general"`
	Detect  rawDetect  `toml:"detect"`
	Clips   rawClips   `toml:"clips"`
}

type rawGeneral struct {
	Input        *string `toml:"input"`
	OutputDir    *string `toml:"output_dir"`
	Format       *string `toml:"format"`
	CombinedName *string `toml:"combined_name"`
}

type rawDetect struct {
	Enabled    *bool    `toml:"enabled"`
	NoiseDB    *float64 `toml:"noise_db"`
	MinSilence *float64 `toml:"min_silence"` // seconds
	Pad        *float64 `toml:"pad"`         // seconds
}

type rawClips struct {
	Count *int     `toml:"count"`
	Names []string `toml:"names"`
}

// Load reads and validates a job file. Relative paths in the file resolve
// against the file's own directory, and ~ expands to the home directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified job file
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: job file not found: %s", ErrConfig, path)
		}
		return Config{}, fmt.Errorf("%w: cannot read %s: %v", ErrConfig, path, err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("%w: cannot parse %s: %v", ErrConfig, path, err)
	}

	baseDir := filepath.Dir(path)
	return resolve(raw, baseDir)
}

// resolve applies defaults and validates a parsed job file.
func resolve(raw rawConfig, baseDir string) (Config, error) {
	if missing := missingGeneral(raw.General); len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: missing general values: %s",
			ErrConfig, strings.Join(missing, ", "))
	}

	format, err := media.ParseFormat(*raw.General.Format)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	cfg := Config{
		Input:         resolvePath(baseDir, *raw.General.Input),
		OutputDir:     resolvePath(baseDir, *raw.General.OutputDir),
		Format:        format,
		CombinedName:  *raw.General.CombinedName,
		DetectEnabled: true,
		NoiseDB:       DefaultNoiseDB,
		MinSilence:    DefaultMinSilence,
		Pad:           DefaultPad,
		Names:         slices.Clone(raw.Clips.Names),
	}

	// Default the combined file's extension from the format when omitted.
	if !strings.Contains(filepath.Base(cfg.CombinedName), ".") {
		ext := cfg.Format.Extension(filepath.Ext(cfg.Input))
		cfg.CombinedName = cfg.CombinedName + "." + ext
	}

	if raw.Detect.Enabled != nil {
		cfg.DetectEnabled = *raw.Detect.Enabled
	}
	if raw.Detect.NoiseDB != nil {
		cfg.NoiseDB = *raw.Detect.NoiseDB
	}
	if raw.Detect.MinSilence != nil {
		cfg.MinSilence = secondsToDuration(*raw.Detect.MinSilence)
	}
	if raw.Detect.Pad != nil {
		cfg.Pad = secondsToDuration(*raw.Detect.Pad)
	}

	cfg.Count = len(cfg.Names)
	if raw.Clips.Count != nil {
		cfg.Count = *raw.Clips.Count
	}
	if cfg.Count <= 0 {
		return Config{}, fmt.Errorf("%w: clips.count must be greater than zero", ErrConfig)
	}
	if len(cfg.Names) < cfg.Count {
		return Config{}, fmt.Errorf("%w: not enough clip names (%d) for required count (%d)",
			ErrConfig, len(cfg.Names), cfg.Count)
	}
	cfg.Names = cfg.Names[:cfg.Count]

	if _, err := os.Stat(cfg.Input); err != nil {
		return Config{}, fmt.Errorf("%w: input audio file not found: %s", ErrConfig, cfg.Input)
	}

	return cfg, nil
}

// missingGeneral returns the sorted names of absent required [general] keys.
func missingGeneral(g rawGeneral) []string {
	var missing []string
	if g.Input == nil {
		missing = append(missing, "input")
	}
	if g.OutputDir == nil {
		missing = append(missing, "output_dir")
	}
	if g.Format == nil {
		missing = append(missing, "format")
	}
	if g.CombinedName == nil {
		missing = append(missing, "combined_name")
	}
	slices.Sort(missing)
	return missing
}

// resolvePath expands ~ and anchors relative paths at the job file's directory.
func resolvePath(baseDir, p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, p)
	}
	return filepath.Clean(p)
}

// secondsToDuration converts a fractional-seconds TOML value.
func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}
