package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/backmassage/sampleclean/internal/check"
	"github.com/backmassage/sampleclean/internal/config"
	"github.com/backmassage/sampleclean/internal/display"
	"github.com/backmassage/sampleclean/internal/logging"
	"github.com/backmassage/sampleclean/internal/pipeline"
	"github.com/backmassage/sampleclean/internal/runlock"
	"github.com/backmassage/sampleclean/internal/term"
)

// errReported is returned once a fatal error has already been printed, so
// main only sets the exit status.
var errReported = errors.New("error already reported")

const longHelp = `Trim leading and trailing silence from every wav, aiff, aif, flac and mp3
file under <input> and write the results into a mirrored folder. Existing
output files are never overwritten.

Options (key=value, after the input folder):
  t=<dB>        silence threshold in dBFS (default -70)
  m=<bool>      down-mix to mono (1, true, yes, on)
  l=<LUFS>      loudness target, true peak -2 dBTP; implies sr=44100
  f=<ext>       output format (default wav; mp3 is encoded at 320 kbps)
  sr=<Hz>       output sample rate (default: keep source)
  o=<dir>       output folder (default <input>_processed)
  fi=, fo=      fade in/out seconds (accepted, not applied yet)
  h, help, man  show this help

Example:
  sampleclean ~/Samples/drums m=1 t=-60 l=-16 f=mp3`

// rootFlags holds the ambient settings that only exist as flags.
type rootFlags struct {
	configPath string
	jobs       int
	ffmpeg     string
	dryRun     bool
	verbose    bool
	color      string
	noColor    bool
	logFile    string
	check      bool
}

func newRootCommand() *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:           "sampleclean <input> [key=value ...]",
		Short:         "Batch silence trimming and conversion for audio samples",
		Long:          longHelp,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, &f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "Configuration file path (default: user config dir)")
	flags.IntVarP(&f.jobs, "jobs", "j", 0, "Maximum concurrent ffmpeg processes (0 = unbounded)")
	flags.StringVar(&f.ffmpeg, "ffmpeg", config.DefaultFFmpegPath, "ffmpeg binary name or path")
	flags.BoolVarP(&f.dryRun, "dry-run", "d", false, "Print the ffmpeg commands without running them")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Show ffmpeg output and source details for every file")
	flags.StringVar(&f.color, "color", string(config.ColorAuto), "Color output: auto, always or never")
	flags.BoolVar(&f.noColor, "no-color", false, "Disable colors (same as --color=never)")
	flags.StringVarP(&f.logFile, "log", "l", "", "Append log lines to this file")
	flags.BoolVar(&f.check, "check", false, "Check ffmpeg, filters and encoders, then exit")

	return cmd
}

// buildConfig layers defaults < TOML file < flags and key=value options.
// Flags and options set disjoint fields. It returns the unvalidated config
// and the unrecognized options.
func buildConfig(cmd *cobra.Command, f *rootFlags, args []string) (config.Config, []string, error) {
	cfg := config.DefaultConfig()

	if _, _, err := config.LoadFile(f.configPath, &cfg); err != nil {
		return cfg, nil, err
	}

	changed := cmd.Flags().Changed
	if changed("jobs") {
		cfg.Jobs = f.jobs
	}
	if changed("ffmpeg") {
		cfg.FFmpegPath = f.ffmpeg
	}
	if changed("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if changed("color") {
		cfg.ColorMode = config.ColorMode(f.color)
	}
	if f.noColor {
		cfg.ColorMode = config.ColorNever
	}
	if changed("log") {
		cfg.LogFile = f.logFile
	}
	cfg.CheckOnly = f.check

	unknown, err := config.ParseOptions(&cfg, args)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, unknown, nil
}

func runBatch(cmd *cobra.Command, f *rootFlags, args []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors are
	// printed directly together with the usage text.
	cfg, unknown, err := buildConfig(cmd, f, args)
	if errors.Is(err, config.ErrHelp) {
		return cmd.Help()
	}
	term.Configure(cfg.ColorMode)
	if err != nil {
		return reportFatal(cmd, err)
	}

	if cfg.CheckOnly {
		if err := cfg.Validate(); err != nil {
			return reportFatal(cmd, err)
		}
		log, err := newLogger(&cfg, stdout, stderr)
		if err != nil {
			return reportFatal(cmd, err)
		}
		defer log.Close()
		display.PrintBanner(stdout, version)
		if err := check.RunCheck(cmd.Context(), &cfg, log); err != nil {
			log.Error("%v", err)
			return errReported
		}
		return nil
	}

	resolved, err := cfg.Resolve()
	if err != nil {
		return reportFatal(cmd, err)
	}

	// Phase 2: Logger available. All output goes through log from here on.
	log, err := newLogger(&resolved, stdout, stderr)
	if err != nil {
		return reportFatal(cmd, err)
	}
	defer log.Close()

	display.PrintBanner(stdout, version)
	for _, u := range unknown {
		log.Warn("Ignoring unknown option %q", u)
	}

	reporter := display.NewReporter(&resolved, log)
	reporter.SetOutput(stdout)
	reporter.Settings()

	if !resolved.DryRun {
		// Fail fast if ffmpeg or a required filter/encoder is unavailable.
		if err := check.CheckDeps(cmd.Context(), &resolved); err != nil {
			log.Error("%v", err)
			return errReported
		}

		lock, err := runlock.Acquire(resolved.OutputRoot)
		if err != nil {
			log.Error("%v", err)
			return errReported
		}
		defer func() {
			if err := lock.Release(); err != nil {
				log.Warn("%v", err)
			}
		}()
	}

	// Phase 3: Signal handling. Cancel on SIGINT/SIGTERM so no new jobs
	// start; running ffmpeg processes are killed and their partial output
	// removed.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, not starting further files")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Phase 4: Run pipeline (discover → collision check → synthesize → execute).
	stats := pipeline.Run(ctx, &resolved, log, reporter)
	reporter.Summary(stats)

	if stats.DiscoveryErr != nil {
		return errReported
	}
	if stats.Total == 0 {
		log.Warn("No audio files found under %s", resolved.InputRoot)
	}
	return nil
}

func newLogger(cfg *config.Config, stdout, stderr io.Writer) (*logging.Logger, error) {
	log, err := logging.NewLogger(cfg, uuid.NewString())
	if err != nil {
		return nil, err
	}
	log.SetOutput(stdout, stderr)
	return log, nil
}

// reportFatal prints err, a hint when one applies, and the usage text to
// stderr, then returns errReported.
func reportFatal(cmd *cobra.Command, err error) error {
	w := cmd.ErrOrStderr()
	st := newStyles()

	fmt.Fprintln(w, st.errorLine(err))
	if hint := hintFor(err); hint != "" {
		fmt.Fprintln(w, st.hintLine(hint))
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, cmd.UsageString())
	return errReported
}

func hintFor(err error) string {
	var conflict *config.ConfigConflictError
	var invalid *config.InvalidInputError
	var option *config.OptionError
	switch {
	case errors.As(err, &conflict):
		return "Choose an output path outside: " + conflict.Input
	case errors.As(err, &invalid):
		return "Pass an existing folder as the first argument."
	case errors.As(err, &option):
		return "Numeric options take plain numbers, for example t=-60 or sr=48000."
	}
	return ""
}
