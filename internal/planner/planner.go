package planner

import (
	"fmt"

	"github.com/backmassage/sampleclean/internal/config"
	"github.com/backmassage/sampleclean/internal/naming"
)

const (
	// LoudnormSampleRate is the rate used when loudness normalization is
	// requested without an explicit sample rate. loudnorm upsamples to
	// 192 kHz internally and would otherwise emit that.
	LoudnormSampleRate = 44100

	// MP3Bitrate is the constant bitrate forced for mp3 output.
	MP3Bitrate = "320k"

	formatMP3 = "mp3"
)

// BuildPlan produces the FilePlan for one source. outputBase is the
// destination path without extension. BuildPlan has no side effects and
// never reads the filesystem.
//
// Flow:
//  1. Silence trim filter (always)
//  2. Loudness normalization filter (when a target is set)
//  3. Sample rate (explicit, or 44100 implied by step 2)
//  4. Mono down-mix (when requested)
//  5. Bitrate (mp3 only)
//  6. Output path
//
// Fade-in/fade-out settings are accepted by the configuration but not yet
// applied to the filter chain.
func BuildPlan(cfg *config.Config, inputPath, outputBase string) FilePlan {
	plan := FilePlan{
		InputPath: inputPath,
		Format:    cfg.OutputFormat,
	}

	// --- 1. Silence trim ---
	plan.AudioFilters = append(plan.AudioFilters, SilenceRemoveFilter(cfg.SilenceThresholdDB))

	// --- 2. Loudness normalization ---
	if cfg.LoudnessTargetLUFS != nil {
		plan.AudioFilters = append(plan.AudioFilters, LoudnormFilter(*cfg.LoudnessTargetLUFS))
	}

	// --- 3. Sample rate ---
	plan.SampleRate = EffectiveSampleRate(cfg)
	if cfg.SampleRateHz == nil && plan.SampleRate != 0 {
		plan.Notes = append(plan.Notes, fmt.Sprintf("sample rate %d Hz implied by loudness normalization", plan.SampleRate))
	}

	// --- 4. Channels ---
	if cfg.ToMono {
		plan.Channels = 1
	}

	// --- 5. Bitrate ---
	if cfg.OutputFormat == formatMP3 {
		plan.Bitrate = MP3Bitrate
	}

	// --- 6. Output ---
	plan.OutputPath = naming.DestinationPath(outputBase, cfg.OutputFormat)
	return plan
}

// EffectiveSampleRate returns the output sample rate a run will request:
// the explicit rate when set, 44100 when only loudness normalization is
// set, and 0 (keep the source rate) otherwise.
func EffectiveSampleRate(cfg *config.Config) int {
	if cfg.SampleRateHz != nil {
		return *cfg.SampleRateHz
	}
	if cfg.LoudnessTargetLUFS != nil {
		return LoudnormSampleRate
	}
	return 0
}
