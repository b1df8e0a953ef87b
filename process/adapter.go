package process

import (
	"context"
	"time"

	"github.com/kbukum/yake/logger"
)

// Executor runs one step. *Adapter is the subprocess implementation; tests
// substitute recorders.
type Executor interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

var _ Executor = (*Adapter)(nil)

// Config holds the step limits taken from runner configuration.
type Config struct {
	// GracePeriod is the SIGTERM to SIGKILL delay for commands that set none.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout bounds each command. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
}

// Adapter runs commands as subprocesses under Config's limits.
type Adapter struct {
	config Config
	log    *logger.Logger
}

// NewAdapter creates an adapter for cfg.
func NewAdapter(cfg Config) *Adapter {
	return &Adapter{config: cfg, log: logger.Nop()}
}

// WithLogger logs every subprocess at debug level.
func (a *Adapter) WithLogger(l *logger.Logger) *Adapter {
	if l != nil {
		a.log = l.WithComponent("process")
	}
	return a
}

// Run executes cmd. A per-command timeout surfaces as
// context.DeadlineExceeded in the returned error.
func (a *Adapter) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.GracePeriod == 0 && a.config.GracePeriod > 0 {
		cmd.GracePeriod = a.config.GracePeriod
	}
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	res, err := Run(ctx, cmd)
	fields := logger.Fields("binary", cmd.Binary, "args", cmd.Args)
	if res != nil {
		fields = logger.MergeWithDuration(fields, res.Duration)
		fields[logger.FieldExitCode] = res.ExitCode
	}
	if err != nil {
		a.log.Debug("subprocess failed", logger.MergeWithError(fields, err))
		return res, err
	}
	a.log.Debug("subprocess finished", fields)
	return res, nil
}
