package pipeline

import (
	"fmt"
	"time"

	"github.com/backmassage/sampleclean/internal/ffmpeg"
)

// OutcomeKind classifies how a job ended.
type OutcomeKind int

const (
	Skipped OutcomeKind = iota
	Succeeded
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Skipped:
		return "skipped"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Skip reasons.
const (
	ReasonExists      = "already exists"
	ReasonDryRun      = "dry run"
	ReasonInterrupted = "interrupted"
)

// Outcome is the single result reported for one discovered file.
type Outcome struct {
	Kind   OutcomeKind
	Job    Job
	Reason string // Skip reason, "dry run", or the failure message.

	// Command is the display form of the ffmpeg invocation; empty when the
	// job ended before synthesis.
	Command string
	Stdout  string
	Stderr  string
	Err     error

	Duration    time.Duration
	InputBytes  int64
	OutputBytes int64
}

// SubprocessFailure is the error for a job whose ffmpeg run did not exit 0.
type SubprocessFailure struct {
	Command  string
	ExitCode int // -1 when the process never started or was signalled.
	Started  bool
	Stderr   string
	Cause    string // Short diagnosis from stderr, if recognised.
	Err      error
}

func (e *SubprocessFailure) Error() string {
	var msg string
	switch {
	case !e.Started:
		msg = fmt.Sprintf("ffmpeg could not be started: %v", e.Err)
	case e.ExitCode >= 0:
		msg = fmt.Sprintf("ffmpeg exited with status %d", e.ExitCode)
	default:
		msg = fmt.Sprintf("ffmpeg terminated: %v", e.Err)
	}
	if e.Cause != "" {
		msg += " (" + e.Cause + ")"
	}
	return msg
}

func (e *SubprocessFailure) Unwrap() error { return e.Err }

func newSubprocessFailure(spec ffmpeg.CommandSpec, res ffmpeg.Result) *SubprocessFailure {
	return &SubprocessFailure{
		Command:  spec.String(),
		ExitCode: res.ExitCode,
		Started:  res.Started,
		Stderr:   res.Stderr,
		Cause:    ffmpeg.Diagnose(res.Stderr),
		Err:      res.Err,
	}
}
