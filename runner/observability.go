package runner

import (
	"context"

	"github.com/kbukum/yake/errors"
	"github.com/kbukum/yake/logger"
	"github.com/kbukum/yake/observability"
)

// targetFunc runs one prepared target.
type targetFunc func(ctx context.Context, j *job) (*Entry, error)

// chain wraps runTarget with tracing, metrics and logging.
func (e *Engine) chain(log *logger.Logger) targetFunc {
	run := withLogging(e.runTarget, log)
	if e.metrics != nil {
		run = withMetrics(run, e.metrics)
	}
	return withTracing(run)
}

// withTracing creates a span per target execution.
func withTracing(next targetFunc) targetFunc {
	return func(ctx context.Context, j *job) (*Entry, error) {
		ctx, span := observability.StartSpan(ctx, observability.SpanTarget)
		defer span.End()

		observability.SetSpanAttribute(ctx, observability.AttrTarget, j.path)

		entry, err := next(ctx, j)
		observability.SetSpanAttribute(ctx, observability.AttrStatus, string(entry.Status))
		if err != nil {
			observability.SetSpanAttribute(ctx, observability.AttrExitCode, entry.ExitCode)
			observability.SetSpanError(ctx, err)
		}
		return entry, err
	}
}

// withMetrics records target count, duration and errors.
func withMetrics(next targetFunc, metrics *observability.Metrics) targetFunc {
	return func(ctx context.Context, j *job) (*Entry, error) {
		entry, err := next(ctx, j)
		if err != nil {
			metrics.RecordError(ctx, string(errors.CodeOf(err)), j.path)
		}
		metrics.RecordTarget(ctx, j.path, string(entry.Status), entry.Duration)
		return entry, err
	}
}

// withLogging logs target name, duration and outcome.
func withLogging(next targetFunc, log *logger.Logger) targetFunc {
	return func(ctx context.Context, j *job) (*Entry, error) {
		log.Debug("target started", logger.Fields(
			logger.FieldTarget, j.path,
			"steps", len(j.lines),
		))

		entry, err := next(ctx, j)

		fields := logger.MergeWithDuration(logger.Fields(
			logger.FieldTarget, j.path,
			logger.FieldStatus, string(entry.Status),
		), entry.Duration)
		if err != nil {
			fields[logger.FieldExitCode] = entry.ExitCode
			log.Error("target failed", logger.MergeWithError(fields, err))
		} else {
			log.Info("target completed", fields)
		}
		return entry, err
	}
}
