package observability

import (
	"context"
	stderrors "errors"
)

// Config enables telemetry export. An empty Endpoint disables it.
type Config struct {
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// Enabled reports whether an exporter endpoint is configured.
func (c Config) Enabled() bool { return c.Endpoint != "" }

// Setup installs tracer and meter providers for cfg and returns a function
// flushing and stopping both. When telemetry is disabled it installs nothing
// and the returned function is a no-op.
func Setup(ctx context.Context, serviceName, version string, cfg Config) (func(context.Context) error, error) {
	if !cfg.Enabled() {
		return func(context.Context) error { return nil }, nil
	}

	tcfg := DefaultTracerConfig(serviceName)
	tcfg.ServiceVersion = version
	tcfg.Endpoint = cfg.Endpoint
	tcfg.Insecure = cfg.Insecure
	tcfg.SampleRate = cfg.SampleRate

	tp, err := InitTracer(ctx, &tcfg)
	if err != nil {
		return nil, err
	}

	mcfg := DefaultMeterConfig(serviceName)
	mcfg.ServiceVersion = version
	mcfg.Endpoint = cfg.Endpoint
	mcfg.Insecure = cfg.Insecure

	mp, err := InitMeter(ctx, &mcfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return stderrors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
