// Package observability provides OpenTelemetry tracing and metrics for yake
// runs. Telemetry is off unless an OTLP endpoint is configured; without it the
// global no-op providers make every call here free.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, &cfg)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanTarget)
//	defer span.End()
//
// Metrics:
//
//	metrics, err := observability.NewMetrics(observability.Meter("yake"))
//	metrics.RecordTarget(ctx, "docker.postgres", "completed", duration)
package observability
