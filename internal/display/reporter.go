// Package display renders the run for humans: the startup banner, the
// settings block, one line per file outcome and the final summary table.
package display

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/backmassage/sampleclean/internal/config"
	"github.com/backmassage/sampleclean/internal/ffmpeg"
	"github.com/backmassage/sampleclean/internal/logging"
	"github.com/backmassage/sampleclean/internal/pipeline"
	"github.com/backmassage/sampleclean/internal/planner"
	"github.com/backmassage/sampleclean/internal/probe"
)

// stderrTailLines bounds the ffmpeg output shown for a failure outside
// verbose mode.
const stderrTailLines = 20

// Reporter prints outcomes as they arrive. It implements pipeline.Sink;
// the runner serializes calls, so Reporter itself holds no lock.
type Reporter struct {
	cfg *config.Config
	log *logging.Logger
	out io.Writer // Summary table destination.

	inspect func(path string) (*probe.SourceInfo, error)
}

// NewReporter creates a Reporter that logs through log and writes the
// summary table to stdout.
func NewReporter(cfg *config.Config, log *logging.Logger) *Reporter {
	return &Reporter{cfg: cfg, log: log, out: os.Stdout, inspect: probe.Inspect}
}

// SetOutput redirects the summary table.
func (r *Reporter) SetOutput(w io.Writer) { r.out = w }

// Settings logs the resolved configuration once, before any job starts.
func (r *Reporter) Settings() {
	c := r.cfg
	r.log.Info("Input:  %s", c.InputRoot)
	r.log.Info("Output: %s", c.OutputRoot)
	r.log.Info("Silence threshold: %s dB", strconv.FormatFloat(c.SilenceThresholdDB, 'f', -1, 64))
	r.log.Info("Mono: %s", yesNo(c.ToMono))

	if c.LoudnessTargetLUFS != nil {
		r.log.Info("Loudness: %s LUFS (true peak -2 dBTP)", strconv.FormatFloat(*c.LoudnessTargetLUFS, 'f', -1, 64))
	} else {
		r.log.Info("Loudness: off")
	}

	switch rate := planner.EffectiveSampleRate(c); {
	case rate == 0:
		r.log.Info("Sample rate: keep source")
	case c.SampleRateHz == nil:
		r.log.Info("Sample rate: %d Hz (implied by loudness normalization)", rate)
	default:
		r.log.Info("Sample rate: %d Hz", rate)
	}

	if c.OutputFormat == "mp3" {
		r.log.Info("Format: mp3 (CBR %s)", FormatBitrate(planner.MP3Bitrate))
	} else {
		r.log.Info("Format: %s", c.OutputFormat)
	}

	if c.Jobs > 0 {
		r.log.Info("Jobs: %d", c.Jobs)
	} else {
		r.log.Info("Jobs: unbounded")
	}
	if c.FadeInSec != nil || c.FadeOutSec != nil {
		r.log.Warn("Fade in/out values are accepted but not applied")
	}
	if c.DryRun {
		r.log.Info("Dry run: commands are printed, nothing is written")
	}
	r.log.Debug(c.Verbose, "Run ID: %s", r.log.RunID())
}

// Outcome prints one labeled line for o, plus captured output when
// verbose or when the job failed.
func (r *Reporter) Outcome(o pipeline.Outcome) {
	rel := o.Job.Source.RelativePath
	verbose := r.cfg.Verbose

	switch o.Kind {
	case pipeline.Skipped:
		r.log.Skip("%s (%s)", rel, o.Reason)
		return

	case pipeline.Succeeded:
		r.logSource(o)
		if o.Reason == pipeline.ReasonDryRun {
			r.log.Success("[DRY] %s -> %s", rel, r.relToOutput(o.Job.DestinationPath))
			r.log.Info("  %s", o.Command)
			return
		}
		r.log.Success("%s -> %s (%s, %s)", rel, r.relToOutput(o.Job.DestinationPath),
			FormatBytes(o.OutputBytes), formatDuration(o.Duration))
		if verbose {
			r.log.Block("  stdout:", o.Stdout)
			r.log.Block("  stderr:", o.Stderr)
		}

	case pipeline.Failed:
		r.logSource(o)
		r.log.Error("FAILED %s: %s", rel, o.Reason)
		if verbose {
			r.log.Block("  command:", o.Command)
			r.log.Block("  stdout:", o.Stdout)
			r.log.Block("  stderr:", o.Stderr)
		} else if tail := ffmpeg.Tail(o.Stderr, stderrTailLines); tail != "" {
			r.log.Block("  last ffmpeg output:", tail)
		}
	}
}

// logSource prints header info for wav/aiff sources in verbose mode.
func (r *Reporter) logSource(o pipeline.Outcome) {
	if !r.cfg.Verbose || r.inspect == nil {
		return
	}
	info, err := r.inspect(o.Job.Source.AbsolutePath)
	if err != nil {
		return
	}
	r.log.Debug(true, "%s: %s", o.Job.Source.RelativePath, info.Summary())
}

// Summary prints the totals table and lists failed files.
func (r *Reporter) Summary(stats pipeline.RunStats) {
	r.log.Info("Done: %d succeeded, %d skipped, %d failed in %s",
		stats.Succeeded, stats.Skipped, stats.Failed, formatDuration(stats.Elapsed))

	rows := [][]string{
		{"Succeeded", strconv.Itoa(stats.Succeeded)},
		{"Skipped", strconv.Itoa(stats.Skipped)},
		{"Failed", strconv.Itoa(stats.Failed)},
		{"Total", strconv.Itoa(stats.Total)},
	}
	if !r.cfg.DryRun && stats.Succeeded > 0 {
		rows = append(rows,
			[]string{"Input size", FormatBytes(stats.TotalInputBytes)},
			[]string{"Output size", FormatBytes(stats.TotalOutputBytes)},
			[]string{"Size change", FormatSizeChange(stats.TotalInputBytes, stats.TotalOutputBytes)},
		)
	}
	fmt.Fprintln(r.out, renderTable([]string{"Result", "Files"}, rows, []columnAlignment{alignLeft, alignRight}))

	if stats.Interrupted {
		r.log.Warn("Interrupted: remaining files were not started")
	}
	if stats.DiscoveryErr != nil {
		r.log.Warn("File discovery stopped early: %v", stats.DiscoveryErr)
	}
	if len(stats.Failures) > 0 {
		r.log.Error("Failed files:")
		for _, o := range stats.Failures {
			r.log.Error("  %s: %s", o.Job.Source.RelativePath, o.Reason)
		}
	}
}

func (r *Reporter) relToOutput(path string) string {
	if rel, err := filepath.Rel(r.cfg.OutputRoot, path); err == nil {
		return rel
	}
	return path
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
