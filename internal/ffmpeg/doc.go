// Package ffmpeg renders a planner.FilePlan into an ffmpeg invocation and
// runs it.
//
// Types:
//   - CommandSpec: program plus ordered argument list. Execution never goes
//     through a shell, so paths with spaces or quotes need no escaping.
//   - Result: captured stdout/stderr, exit code and spawn/wait error.
//
// Functions:
//   - Build(program, plan) → CommandSpec
//     Fixed preamble (-hide_banner -nostdin -n), input, -af chain, optional
//     -ar / -ac / -b:a, output path last.
//   - Synthesize(cfg, source, destBase) → CommandSpec
//     BuildPlan followed by Build.
//   - Execute(ctx, spec) → Result
//     Runs the command and captures both streams.
//   - Diagnose(stderr) → string
//     Maps common stderr patterns to a short human-readable cause.
package ffmpeg
