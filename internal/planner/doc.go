// Package planner turns the run configuration and one source/destination
// pair into a FilePlan: the resolved filter chain, sample rate, channel
// count, bitrate and output path. The ffmpeg package renders a plan into
// command arguments.
//
// Filter chain order is fixed:
//  1. silenceremove (always): trim leading and trailing silence
//  2. loudnorm (optional): integrated loudness target, -2 dBTP ceiling
//
// Loudness normalization resamples internally, so a plan with loudnorm and
// no explicit rate pins the output to 44100 Hz.
package planner
