package runner

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/yake/dag"
	"github.com/kbukum/yake/effective"
	"github.com/kbukum/yake/logger"
	"github.com/kbukum/yake/observability"
	"github.com/kbukum/yake/process"
	"github.com/kbukum/yake/target"
)

// Policy decides what happens after a target fails.
type Policy string

const (
	// FailFast aborts the run at the first failing step.
	FailFast Policy = "fail-fast"
	// SkipDependents skips targets that depend on a failure and runs the rest.
	SkipDependents Policy = "skip-dependents"
)

// DefaultShell runs every exec line as "bash -c <line>".
const DefaultShell = "bash"

// Engine runs schedules produced by a dag.Graph.
type Engine struct {
	graph   *dag.Graph
	tree    *target.Tree
	exec    process.Executor
	shell   string
	policy  Policy
	dir     string
	baseEnv []string
	params  map[string]string
	echo    io.Writer
	stdout  io.Writer
	stderr  io.Writer
	log     *logger.Logger
	metrics *observability.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithExecutor replaces the subprocess executor.
func WithExecutor(x process.Executor) Option { return func(e *Engine) { e.exec = x } }

// WithShell sets the shell binary invoked with -c.
func WithShell(shell string) Option { return func(e *Engine) { e.shell = shell } }

// WithPolicy sets the failure policy.
func WithPolicy(p Policy) Option { return func(e *Engine) { e.policy = p } }

// WithDir sets the working directory of every command.
func WithDir(dir string) Option { return func(e *Engine) { e.dir = dir } }

// WithBaseEnv replaces the environment snapshot commands start from.
func WithBaseEnv(env []string) Option { return func(e *Engine) { e.baseEnv = env } }

// WithParams sets the values of {{params.*}} placeholders.
func WithParams(params map[string]string) Option { return func(e *Engine) { e.params = params } }

// WithEcho announces each step as "-- <command>" on w.
func WithEcho(w io.Writer) Option { return func(e *Engine) { e.echo = w } }

// WithOutput streams command output to stdout and stderr as well as
// capturing it in the report.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(e *Engine) { e.stdout, e.stderr = stdout, stderr }
}

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l.WithComponent("runner")
		}
	}
}

// WithMetrics records run, target and step metrics.
func WithMetrics(m *observability.Metrics) Option { return func(e *Engine) { e.metrics = m } }

// New creates an engine for g. Unless WithBaseEnv is given, the process
// environment is snapshotted here, once.
func New(g *dag.Graph, opts ...Option) *Engine {
	e := &Engine{
		graph:  g,
		tree:   g.Tree(),
		exec:   process.NewAdapter(process.Config{}),
		shell:  DefaultShell,
		policy: FailFast,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.baseEnv == nil {
		e.baseEnv = os.Environ()
	}
	return e
}

// job is a fully prepared target: expanded lines and final environment.
type job struct {
	path  string
	lines []string
	env   []string
}

// Prepare resolves and expands every target of schedule without running
// anything. It returns the expanded exec lines per target in schedule order.
func (e *Engine) Prepare(schedule []string) ([]Planned, error) {
	jobs, err := e.prepare(schedule)
	if err != nil {
		return nil, err
	}
	out := make([]Planned, len(jobs))
	for i, j := range jobs {
		out[i] = Planned{Path: j.path, Commands: j.lines}
	}
	return out, nil
}

// Planned is a target with its expanded exec lines.
type Planned struct {
	Path     string
	Commands []string
}

func (e *Engine) prepare(schedule []string) ([]*job, error) {
	jobs := make([]*job, 0, len(schedule))
	for _, path := range schedule {
		if _, err := e.tree.Resolve(path, ""); err != nil {
			return nil, err
		}
		cfg, err := effective.Resolve(e.tree, path)
		if err != nil {
			return nil, err
		}
		lines, err := cfg.ExpandExec(e.params)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, &job{
			path:  path,
			lines: lines,
			env:   overlay(e.baseEnv, cfg.Env),
		})
	}
	return jobs, nil
}

// Run executes schedule in order. The report is nil only when preparation
// fails; otherwise it holds every target the run reached, even on error.
func (e *Engine) Run(ctx context.Context, schedule []string) (*Report, error) {
	jobs, err := e.prepare(schedule)
	if err != nil {
		return nil, err
	}

	rc := observability.NewRunContext(uuid.NewString(), schedule, e.metrics)
	ctx, span := rc.StartRunSpan(ctx)

	report := &Report{RunID: rc.RunID, Started: rc.StartTime}
	log := e.log.WithFields(logger.Fields(logger.FieldRunID, rc.RunID))

	log.Info("run started", logger.Fields("targets", len(jobs), "policy", string(e.policy)))
	err = e.execute(ctx, jobs, report, e.chain(log))
	report.Duration = rc.Duration()

	outcome := outcomeOf(err)
	rc.EndRun(ctx, span, outcome, err)
	log.Info("run finished", logger.MergeWithDuration(logger.Fields(
		logger.FieldStatus, outcome,
		"completed", report.Count(StatusCompleted),
		"failed", report.Count(StatusFailed),
		"skipped", report.Count(StatusSkipped),
	), report.Duration))

	return report, err
}

func (e *Engine) execute(ctx context.Context, jobs []*job, report *Report, run targetFunc) error {
	// Targets that failed or were skipped; their dependents are skipped too.
	broken := make(map[string]bool)
	var firstErr error

	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			report.Entries = append(report.Entries, Entry{Path: j.path, Status: StatusCancelled, ExitCode: -1})
			return &CancelledError{Target: j.path, Cause: err}
		}

		if e.policy == SkipDependents {
			if dep := e.brokenDependency(j.path, broken); dep != "" {
				report.Entries = append(report.Entries, Entry{Path: j.path, Status: StatusSkipped, SkippedBecause: dep})
				broken[j.path] = true
				continue
			}
		}

		entry, err := run(ctx, j)
		report.Entries = append(report.Entries, *entry)
		if err == nil {
			continue
		}

		var cancelled *CancelledError
		if stderrors.As(err, &cancelled) || e.policy != SkipDependents {
			return err
		}
		broken[j.path] = true
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// brokenDependency returns the first direct dependency of path that failed or
// was skipped. The schedule is topological, so one level is enough.
func (e *Engine) brokenDependency(path string, broken map[string]bool) string {
	for _, dep := range e.graph.Dependencies(path) {
		if broken[dep] {
			return dep
		}
	}
	return ""
}

func (e *Engine) runTarget(ctx context.Context, j *job) (*Entry, error) {
	start := time.Now()
	entry := &Entry{Path: j.path, Status: StatusCompleted}

	for i, line := range j.lines {
		if e.echo != nil {
			fmt.Fprintf(e.echo, "-- %s\n", line)
		}

		fields := logger.StepFields(j.path, i, line)
		if rc := observability.RunContextFromContext(ctx); rc != nil {
			fields[logger.FieldRunID] = rc.RunID
		}
		e.log.Debug("step started", fields)

		cmd := process.Shell(e.shell, line)
		cmd.Dir = e.dir
		cmd.Env = j.env
		cmd.Stdout = e.stdout
		cmd.Stderr = e.stderr

		stepCtx, span := observability.StartStepSpan(ctx, j.path, i, line)
		stepStart := time.Now()
		res, err := e.exec.Run(stepCtx, cmd)
		step := StepResult{Command: line, ExitCode: -1, Duration: time.Since(stepStart)}
		if res != nil {
			step.ExitCode = res.ExitCode
			step.Stdout = string(res.Stdout)
			step.Stderr = string(res.Stderr)
		}
		observability.SetSpanAttribute(stepCtx, observability.AttrExitCode, step.ExitCode)
		if err != nil {
			observability.SetSpanError(stepCtx, err)
		}
		span.End()
		entry.Steps = append(entry.Steps, step)
		if e.metrics != nil {
			e.metrics.RecordStep(ctx, j.path, step.ExitCode, step.Duration)
		}

		// An executor may report a failed step without an error.
		if err == nil && res.Success() {
			continue
		}

		entry.ExitCode = step.ExitCode
		entry.Duration = time.Since(start)
		if ctx.Err() != nil {
			entry.Status = StatusCancelled
			return entry, &CancelledError{Target: j.path, Cause: ctx.Err()}
		}
		entry.Status = StatusFailed
		return entry, &ExecutionError{
			Target:   j.path,
			Step:     i,
			Command:  line,
			ExitCode: step.ExitCode,
			Cause:    err,
		}
	}

	entry.Duration = time.Since(start)
	return entry, nil
}

func outcomeOf(err error) string {
	var cancelled *CancelledError
	switch {
	case err == nil:
		return string(StatusCompleted)
	case stderrors.As(err, &cancelled):
		return string(StatusCancelled)
	default:
		return string(StatusFailed)
	}
}
