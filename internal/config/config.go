// Package config holds runtime configuration: defaults, key=value option
// parsing, the optional TOML file, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Defaults for the transformation settings.
const (
	DefaultSilenceThresholdDB = -70.0
	DefaultOutputFormat       = "wav"
	DefaultFFmpegPath         = "ffmpeg"

	// OutputSuffix is appended to the input root when no output root is given.
	OutputSuffix = "_processed"
)

var formatPattern = regexp.MustCompile(`^[a-z0-9]+$`)

// Config holds all runtime settings. It is populated by [DefaultConfig], the
// optional TOML file and the key=value options, then finalized by
// [Config.Resolve]. The resolved value is shared read-only by every job of a
// run and must not be modified afterwards.
type Config struct {
	// Paths. Absolute and symlink-resolved after Resolve.
	InputRoot  string
	OutputRoot string // Default: "<InputRoot>_processed".

	// Transformation settings.
	SilenceThresholdDB float64  // Default: -70 dBFS.
	ToMono             bool     // Default: false.
	LoudnessTargetLUFS *float64 // nil disables loudness normalization.
	SampleRateHz       *int     // nil keeps the source rate (unless loudnorm forces one).
	OutputFormat       string   // Default: "wav". Used as both extension and muxer.
	FadeInSec          *float64 // Reserved: accepted but not applied.
	FadeOutSec         *float64 // Reserved: accepted but not applied.

	// Execution.
	Jobs       int    // Max concurrent ffmpeg processes. 0 means unbounded.
	FFmpegPath string // Default: "ffmpeg" (resolved via PATH).
	DryRun     bool   // Report what would run without spawning ffmpeg.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path (append mode).
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with the stock defaults: -70 dBFS
// threshold, stereo passthrough, no loudness normalization, source sample
// rate, wav output.
func DefaultConfig() Config {
	return Config{
		SilenceThresholdDB: DefaultSilenceThresholdDB,
		OutputFormat:       DefaultOutputFormat,
		FFmpegPath:         DefaultFFmpegPath,
		ColorMode:          ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks the non-path fields. It never touches the filesystem.
func (c *Config) Validate() error {
	if !formatPattern.MatchString(c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (use a lowercase extension such as wav, flac or mp3)", c.OutputFormat)
	}
	if c.SampleRateHz != nil && *c.SampleRateHz <= 0 {
		return fmt.Errorf("sample rate must be a positive number of Hz (got %d)", *c.SampleRateHz)
	}
	if c.SilenceThresholdDB > 0 {
		return fmt.Errorf("silence threshold must be at or below 0 dBFS (got %g)", c.SilenceThresholdDB)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative (got %d)", c.Jobs)
	}
	if strings.TrimSpace(c.FFmpegPath) == "" {
		return errors.New("ffmpeg path must not be empty")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}
	return nil
}

// Resolve returns a copy of c with absolute paths and the default output
// root applied. It fails with [InvalidInputError] when the input root does
// not exist or is not a directory, and with [ConfigConflictError] when the
// output root equals or lives inside the input root.
func (c Config) Resolve() (Config, error) {
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	in := NormalizeDirArg(strings.TrimSpace(c.InputRoot))
	if in == "" {
		return Config{}, &InvalidInputError{Err: errors.New("no input path given")}
	}
	fi, err := os.Stat(in)
	if err != nil {
		return Config{}, &InvalidInputError{Path: in, Err: err}
	}
	if !fi.IsDir() {
		return Config{}, &InvalidInputError{Path: in, Err: ErrNotDirectory}
	}

	out := NormalizeDirArg(strings.TrimSpace(c.OutputRoot))
	if out == "" {
		out = in + OutputSuffix
	}

	inputAbs, err := absPath(in)
	if err != nil {
		return Config{}, &InvalidInputError{Path: in, Err: err}
	}
	outputAbs, err := absPath(out)
	if err != nil {
		return Config{}, fmt.Errorf("resolve output path %q: %w", out, err)
	}
	if err := c.ValidatePaths(inputAbs, outputAbs); err != nil {
		return Config{}, err
	}

	c.InputRoot = inputAbs
	c.OutputRoot = outputAbs
	return c, nil
}

// ValidatePaths ensures the resolved output root is not equal to (or nested
// inside) the resolved input root. A nested output would be rediscovered as
// input on the next run. Both arguments must be absolute, symlink-resolved
// paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs {
		return &ConfigConflictError{Input: inputAbs, Output: outputAbs}
	}
	if strings.HasPrefix(outputAbs+sep, inputAbs+sep) || inputAbs == sep {
		return &ConfigConflictError{Input: inputAbs, Output: outputAbs, Nested: true}
	}
	return nil
}

// absPath returns the absolute path with symlinks resolved. When the path
// does not exist yet (a fresh output root) the nearest existing ancestor is
// resolved and the missing tail re-appended, so comparisons against the
// input root still see through symlinks.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	parent, base := filepath.Split(abs)
	parent = filepath.Clean(parent)
	if parent == abs {
		return abs, nil
	}
	resolvedParent, err := absPath(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, base), nil
}
