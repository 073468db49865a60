package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/sampleclean/internal/config"
	"github.com/backmassage/sampleclean/internal/ffmpeg"
	"github.com/backmassage/sampleclean/internal/logging"
	"github.com/backmassage/sampleclean/internal/naming"
)

// Executor runs one synthesized command.
type Executor interface {
	Execute(ctx context.Context, spec ffmpeg.CommandSpec) ffmpeg.Result
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, spec ffmpeg.CommandSpec) ffmpeg.Result

func (f ExecutorFunc) Execute(ctx context.Context, spec ffmpeg.CommandSpec) ffmpeg.Result {
	return f(ctx, spec)
}

// Sink receives outcomes. Calls are serialized: Outcome is never invoked
// concurrently with itself.
type Sink interface {
	Outcome(o Outcome)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(o Outcome)

func (f SinkFunc) Outcome(o Outcome) { f(o) }

// Runner executes one batch. A Runner is single-use.
type Runner struct {
	cfg    *config.Config
	log    *logging.Logger
	exec   Executor
	sink   Sink
	claims *naming.Claims
}

// NewRunner creates a Runner that executes commands with ffmpeg.Execute.
// sink may be nil.
func NewRunner(cfg *config.Config, log *logging.Logger, sink Sink) *Runner {
	return &Runner{
		cfg:    cfg,
		log:    log,
		exec:   ExecutorFunc(ffmpeg.Execute),
		sink:   sink,
		claims: naming.NewClaims(),
	}
}

// WithExecutor replaces the subprocess executor. Tests use it to avoid
// spawning ffmpeg.
func (r *Runner) WithExecutor(e Executor) *Runner {
	r.exec = e
	return r
}

// Run is the top-level batch entry point with the default executor.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, sink Sink) RunStats {
	return NewRunner(cfg, log, sink).Run(ctx)
}

// Run discovers files and processes each in its own goroutine, at most
// cfg.Jobs at a time (unbounded when 0). Discovery is lazy: when the limit
// is reached the walk pauses until a slot frees up.
//
// Cancelling ctx stops new jobs from starting. Jobs already running are
// killed by the executor and report Failed; jobs that had not started
// report Skipped("interrupted"). Every discovered file gets exactly one
// outcome; files the walk never reached get none.
func (r *Runner) Run(ctx context.Context) RunStats {
	begin := time.Now()

	var stats RunStats
	outcomes := make(chan Outcome)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for o := range outcomes {
			stats.Add(o)
			if r.sink != nil {
				r.sink.Outcome(o)
			}
		}
	}()

	limit := r.cfg.Jobs
	if limit <= 0 {
		limit = -1
	}
	var g errgroup.Group
	g.SetLimit(limit)

	var discoveryErr error
	interrupted := false
	for f, err := range Discover(r.cfg.InputRoot) {
		if err != nil {
			discoveryErr = err
			r.log.Error("File discovery stopped: %v", err)
			break
		}
		if ctx.Err() != nil {
			// f was already yielded, so it still gets its outcome.
			interrupted = true
			outcomes <- Outcome{Kind: Skipped, Reason: ReasonInterrupted, Err: ctx.Err(), Job: NewJob(r.cfg, f)}
			break
		}
		g.Go(func() error {
			outcomes <- r.process(ctx, f)
			return nil
		})
	}

	_ = g.Wait()
	close(outcomes)
	<-collected

	stats.DiscoveryErr = discoveryErr
	stats.Interrupted = interrupted || ctx.Err() != nil
	stats.Elapsed = time.Since(begin)
	return stats
}

// process runs the per-file pipeline and always returns exactly one outcome.
func (r *Runner) process(ctx context.Context, f DiscoveredFile) Outcome {
	start := time.Now()
	job := NewJob(r.cfg, f)
	o := r.processJob(ctx, &job)
	o.Job = job
	o.Duration = time.Since(start)
	return o
}

func (r *Runner) processJob(ctx context.Context, job *Job) Outcome {
	src := job.Source.AbsolutePath
	dst := job.DestinationPath

	// --- Collision check ---
	// Lstat so a dangling symlink at the destination also counts as taken.
	if _, err := os.Lstat(dst); err == nil {
		job.DestinationExists = true
		return Outcome{Kind: Skipped, Reason: ReasonExists}
	}

	// --- In-run claim ---
	if owner, ok := r.claims.Claim(src, dst); !ok {
		return Outcome{Kind: Skipped, Reason: "claimed by " + r.relToInput(owner)}
	}

	if ctx.Err() != nil {
		return Outcome{Kind: Skipped, Reason: ReasonInterrupted, Err: ctx.Err()}
	}

	// --- Output directory ---
	if !r.cfg.DryRun {
		if err := naming.EnsureParent(dst); err != nil {
			return Outcome{Kind: Failed, Reason: err.Error(), Err: err}
		}
	}

	// --- Synthesize ---
	spec := ffmpeg.Synthesize(r.cfg, src, job.DestinationBase)
	o := Outcome{Command: spec.String()}
	if fi, err := os.Stat(src); err == nil {
		o.InputBytes = fi.Size()
	}
	r.log.Debug(r.cfg.Verbose, "%s", o.Command)

	if r.cfg.DryRun {
		o.Kind = Succeeded
		o.Reason = ReasonDryRun
		return o
	}

	// --- Execute ---
	execStart := time.Now()
	res := r.exec.Execute(ctx, spec)
	o.Stdout = res.Stdout
	o.Stderr = res.Stderr

	if !res.OK() {
		if res.Started && !ffmpeg.MatchOutputExists(res.Stderr) {
			r.removePartial(dst, execStart)
		}
		fail := newSubprocessFailure(spec, res)
		o.Kind = Failed
		o.Err = fail
		o.Reason = fail.Error()
		if ctx.Err() != nil {
			o.Reason = ReasonInterrupted + ": " + o.Reason
		}
		return o
	}

	if fi, err := os.Stat(dst); err == nil {
		o.OutputBytes = fi.Size()
	}
	o.Kind = Succeeded
	return o
}

// removePartialSlack absorbs coarse filesystem timestamps; a file last
// modified earlier than this before the subprocess started is not ours.
const removePartialSlack = 2 * time.Second

// removePartial deletes an output left behind by a failed run. Only a file
// modified after the subprocess started is removed, so a file another
// writer placed at dst before ffmpeg ran survives a failure that happened
// before ffmpeg opened its output.
func (r *Runner) removePartial(dst string, execStart time.Time) {
	fi, err := os.Lstat(dst)
	if err != nil {
		return
	}
	if fi.ModTime().Before(execStart.Add(-removePartialSlack)) {
		r.log.Warn("Keeping %s: it predates the failed ffmpeg run", dst)
		return
	}
	err = os.Remove(dst)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.log.Warn("Could not remove partial output %s: %v", dst, err)
	}
}

func (r *Runner) relToInput(path string) string {
	if rel, err := filepath.Rel(r.cfg.InputRoot, path); err == nil {
		return rel
	}
	return path
}
