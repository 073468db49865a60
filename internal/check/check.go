// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg and the filters and encoders
// a run needs.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/sampleclean/internal/config"
	"github.com/backmassage/sampleclean/internal/planner"
)

// Sentinel errors returned by CheckDeps when a required tool, filter or
// encoder is missing. Missing filters and encoders are wrapped with the
// component name.
var (
	ErrFfmpegNotFound = errors.New("ffmpeg not found on PATH")
	ErrFilterMissing  = errors.New("ffmpeg filter not available")
	ErrEncoderMissing = errors.New("ffmpeg encoder not available")
)

const mp3Encoder = "libmp3lame"

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// runFunc runs a program and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CheckDeps is the pre-pipeline validation: ffmpeg must resolve, expose the
// silenceremove filter (and loudnorm when loudness is set), and provide an
// mp3 encoder when the output format is mp3.
func CheckDeps(ctx context.Context, cfg *config.Config) error {
	return checkDeps(ctx, cfg, runOutput)
}

func checkDeps(ctx context.Context, cfg *config.Config, run runFunc) error {
	path, err := exec.LookPath(cfg.FFmpegPath)
	if err != nil {
		return fmt.Errorf("%w (%s)", ErrFfmpegNotFound, cfg.FFmpegPath)
	}

	filters, err := listing(ctx, run, path, "-filters")
	if err != nil {
		return err
	}
	for _, name := range requiredFilters(cfg) {
		if !filters[name] {
			return fmt.Errorf("%w: %s", ErrFilterMissing, name)
		}
	}

	if cfg.OutputFormat == "mp3" {
		encoders, err := listing(ctx, run, path, "-encoders")
		if err != nil {
			return err
		}
		if !encoders[mp3Encoder] {
			return fmt.Errorf("%w: %s", ErrEncoderMissing, mp3Encoder)
		}
	}
	return nil
}

// RunCheck runs the interactive --check flow: prints the ffmpeg version,
// availability of each required filter and encoder, and the result of a
// short test run through the configured filter chain. Informational only;
// it does not stop on failure. It returns the CheckDeps result.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) error {
	log.Info("=== System Check ===")

	path, err := exec.LookPath(cfg.FFmpegPath)
	if err != nil {
		log.Error("ffmpeg not found (%s)", cfg.FFmpegPath)
		return fmt.Errorf("%w (%s)", ErrFfmpegNotFound, cfg.FFmpegPath)
	}
	checkVersion(ctx, runOutput, path, log)

	if filters, err := listing(ctx, runOutput, path, "-filters"); err != nil {
		log.Warn("Could not list filters: %v", err)
	} else {
		for _, name := range []string{"silenceremove", "loudnorm"} {
			reportPresence(log, "filter", name, filters[name])
		}
	}

	if encoders, err := listing(ctx, runOutput, path, "-encoders"); err != nil {
		log.Warn("Could not list encoders: %v", err)
	} else {
		reportPresence(log, "encoder", mp3Encoder, encoders[mp3Encoder])
	}

	checkFilterChain(ctx, cfg, path, log)
	return CheckDeps(ctx, cfg)
}

// checkVersion logs the first line of ffmpeg -version.
func checkVersion(ctx context.Context, run runFunc, path string, log Logger) {
	out, err := run(ctx, path, "-version")
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("ffmpeg: %s", firstLine)
}

// checkFilterChain runs a 0.2 s synthetic tone through the configured
// filter chain into the null muxer.
func checkFilterChain(ctx context.Context, cfg *config.Config, path string, log Logger) {
	plan := planner.BuildPlan(cfg, "", "")
	chain := plan.FilterChain()
	log.Info("Testing filter chain: %s", chain)
	cmd := exec.CommandContext(ctx, path,
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.2",
		"-af", chain,
		"-f", "null", "-",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Error("Filter chain test failed: %v %s", err, strings.TrimSpace(string(out)))
		return
	}
	log.Success("Filter chain works")
}

func reportPresence(log Logger, kind, name string, ok bool) {
	if ok {
		log.Success("%s %s: available", kind, name)
	} else {
		log.Error("%s %s: missing", kind, name)
	}
}

func requiredFilters(cfg *config.Config) []string {
	names := []string{"silenceremove"}
	if cfg.LoudnessTargetLUFS != nil {
		names = append(names, "loudnorm")
	}
	return names
}

func listing(ctx context.Context, run runFunc, path, flag string) (map[string]bool, error) {
	out, err := run(ctx, path, "-hide_banner", flag)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg %s: %w", flag, err)
	}
	return parseListing(string(out)), nil
}

// parseListing extracts component names from `ffmpeg -filters` or
// `ffmpeg -encoders` output. Rows are " <flags> <name> ..."; legend rows
// (" V..... = Video") and separators are ignored.
func parseListing(out string) map[string]bool {
	names := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, " ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[1] == "=" {
			continue
		}
		names[fields[1]] = true
	}
	return names
}
