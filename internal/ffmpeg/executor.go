package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Result holds the outcome of a single ffmpeg invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int // -1 when the process never ran or was killed by a signal.
	Err      error

	// Started reports whether the process was spawned. A false value means
	// nothing can have been written to the output path.
	Started  bool
	Duration time.Duration
}

// OK reports whether the process ran and exited 0.
func (r *Result) OK() bool {
	return r.Started && r.Err == nil && r.ExitCode == 0
}

// Execute runs spec and captures both output streams in full. Cancelling
// ctx kills the process. Start and Wait are separated so a spawn failure
// (binary missing, not executable) is distinguishable from a non-zero exit.
func Execute(ctx context.Context, spec CommandSpec) Result {
	cmd := exec.CommandContext(ctx, spec.Program, spec.Args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	begin := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1, Err: err}
	}

	err := cmd.Wait()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Err:      err,
		Started:  true,
		Duration: time.Since(begin),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() != nil {
		res.Err = ctx.Err()
	}
	return res
}
