package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// File mirrors the optional TOML configuration file. Every field is
// optional; fields left out keep whatever value the Config already had.
//
//	threshold   = -60
//	mono        = true
//	loudness    = -16
//	format      = "mp3"
//	sample_rate = 48000
//	jobs        = 4
type File struct {
	Threshold  *float64 `toml:"threshold"`
	Mono       *bool    `toml:"mono"`
	Loudness   *float64 `toml:"loudness"`
	Format     string   `toml:"format"`
	SampleRate *int     `toml:"sample_rate"`
	Output     string   `toml:"output"`
	FadeIn     *float64 `toml:"fade_in"`
	FadeOut    *float64 `toml:"fade_out"`
	Jobs       *int     `toml:"jobs"`
	FFmpeg     string   `toml:"ffmpeg"`
	LogFile    string   `toml:"log_file"`
	Color      string   `toml:"color"`
}

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, "sampleclean", "config.toml"), nil
}

// LoadFile decodes the TOML file at path onto cfg. With an empty path the
// per-user default location is tried and silently skipped when absent; an
// explicit path must exist. It returns the resolved path and whether a file
// was actually read.
func LoadFile(path string, cfg *Config) (string, bool, error) {
	explicit := strings.TrimSpace(path) != ""
	resolved := strings.TrimSpace(path)
	if !explicit {
		p, err := DefaultConfigPath()
		if err != nil {
			return "", false, nil
		}
		resolved = p
	}

	f, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return resolved, false, nil
		}
		return resolved, false, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var file File
	decoder := toml.NewDecoder(f).DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return resolved, false, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	if err := file.apply(cfg); err != nil {
		return resolved, false, fmt.Errorf("config %s: %w", resolved, err)
	}
	return resolved, true, nil
}

// apply copies the fields present in the file onto cfg.
func (f *File) apply(cfg *Config) error {
	if f.Threshold != nil {
		cfg.SilenceThresholdDB = *f.Threshold
	}
	if f.Mono != nil {
		cfg.ToMono = *f.Mono
	}
	if f.Loudness != nil {
		v := *f.Loudness
		cfg.LoudnessTargetLUFS = &v
	}
	if f.Format != "" {
		cfg.OutputFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f.Format), "."))
	}
	if f.SampleRate != nil {
		v := *f.SampleRate
		cfg.SampleRateHz = &v
	}
	if f.Output != "" {
		cfg.OutputRoot = f.Output
	}
	if f.FadeIn != nil {
		v := *f.FadeIn
		cfg.FadeInSec = &v
	}
	if f.FadeOut != nil {
		v := *f.FadeOut
		cfg.FadeOutSec = &v
	}
	if f.Jobs != nil {
		cfg.Jobs = *f.Jobs
	}
	if f.FFmpeg != "" {
		cfg.FFmpegPath = f.FFmpeg
	}
	if f.LogFile != "" {
		cfg.LogFile = f.LogFile
	}
	if f.Color != "" {
		mode := ColorMode(strings.ToLower(strings.TrimSpace(f.Color)))
		switch mode {
		case ColorAuto, ColorAlways, ColorNever:
			cfg.ColorMode = mode
		default:
			return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", f.Color)
		}
	}
	return nil
}
