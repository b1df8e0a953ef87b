package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/yake/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name reported for metrics.
	ServiceName string
	// ServiceVersion is the version of the tool.
	ServiceVersion string
	// Environment is a free-form deployment label (dev, ci, ...).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Debug("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded during a run.
type Metrics struct {
	runTotal       metric.Int64Counter
	targetTotal    metric.Int64Counter
	targetDuration metric.Float64Histogram
	stepTotal      metric.Int64Counter
	stepDuration   metric.Float64Histogram
	errorTotal     metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	runTotal, err := meter.Int64Counter("yake.run.total",
		metric.WithDescription("Total number of runs by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating yake.run.total counter: %w", err)
	}

	targetTotal, err := meter.Int64Counter("yake.target.total",
		metric.WithDescription("Total number of targets processed by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating yake.target.total counter: %w", err)
	}

	targetDuration, err := meter.Float64Histogram("yake.target.duration",
		metric.WithDescription("Duration of targets in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating yake.target.duration histogram: %w", err)
	}

	stepTotal, err := meter.Int64Counter("yake.step.total",
		metric.WithDescription("Total number of exec steps run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating yake.step.total counter: %w", err)
	}

	stepDuration, err := meter.Float64Histogram("yake.step.duration",
		metric.WithDescription("Duration of exec steps in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating yake.step.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("yake.error.total",
		metric.WithDescription("Total errors by type and target"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating yake.error.total counter: %w", err)
	}

	return &Metrics{
		runTotal:       runTotal,
		targetTotal:    targetTotal,
		targetDuration: targetDuration,
		stepTotal:      stepTotal,
		stepDuration:   stepDuration,
		errorTotal:     errorTotal,
	}, nil
}

// RecordRun records a finished run.
func (m *Metrics) RecordRun(ctx context.Context, outcome string) {
	m.runTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordTarget records a processed target.
func (m *Metrics) RecordTarget(ctx context.Context, target, status string, duration time.Duration) {
	m.targetTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("target", target),
		attribute.String("status", status),
	))
	m.targetDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("target", target),
	))
}

// RecordStep records an exec step.
func (m *Metrics) RecordStep(ctx context.Context, target string, exitCode int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("target", target),
		attribute.Int("exit_code", exitCode),
	)
	m.stepTotal.Add(ctx, 1, attrs)
	m.stepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("target", target),
	))
}

// RecordError records an error by type and target.
func (m *Metrics) RecordError(ctx context.Context, errType, target string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("target", target),
	))
}
