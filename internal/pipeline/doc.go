// Package pipeline discovers audio files under the input root and runs one
// independent transformation job per file, concurrently.
//
// Types:
//   - DiscoveredFile (absolute and root-relative path of one match)
//   - Job (source plus computed destination)
//   - Outcome (Skipped, Succeeded or Failed; exactly one per file)
//   - RunStats (counters and byte totals, built from outcomes)
//
// Functions:
//   - Discover(root) → iter.Seq2[DiscoveredFile, error]
//     Lazy recursive walk, case-insensitive extension allow-list.
//   - Run(ctx, cfg, log, sink) → RunStats
//     For each file: collision check → claim → mkdir → synthesize →
//     execute. Failures stay local to their file. Outcomes reach the sink
//     one at a time, in completion order.
package pipeline
