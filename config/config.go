package config

import (
	"time"

	"github.com/kbukum/yake/errors"
	"github.com/kbukum/yake/logger"
	"github.com/kbukum/yake/observability"
	"github.com/kbukum/yake/validation"
)

// Failure policies.
const (
	PolicyFailFast       = "fail-fast"
	PolicySkipDependents = "skip-dependents"
)

// Defaults.
const (
	DefaultName        = "yake"
	DefaultShell       = "bash"
	DefaultGracePeriod = 5 * time.Second
	DefaultLogLevel    = "warn"
)

// Config is the runner configuration.
type Config struct {
	Name string `yaml:"name" mapstructure:"name"`
	// Yakefile is an explicit target file; empty searches the working directory.
	Yakefile string `yaml:"yakefile" mapstructure:"yakefile"`
	// Dir is the working directory for commands; empty uses the current one.
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Shell  string `yaml:"shell" mapstructure:"shell" validate:"required"`
	Policy string `yaml:"policy" mapstructure:"policy" validate:"oneof=fail-fast skip-dependents"`
	// Timeout bounds each exec step. Zero disables it.
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period" validate:"gte=0"`
	// EnvFile is a dotenv file overlaid on the process environment of every command.
	EnvFile string `yaml:"env_file" mapstructure:"env_file"`
	// Quiet suppresses the "-- <command>" announcement of each step.
	Quiet     bool                 `yaml:"quiet" mapstructure:"quiet"`
	Logging   logger.Config        `yaml:"logging" mapstructure:"logging"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Shell == "" {
		c.Shell = DefaultShell
	}
	if c.Policy == "" {
		c.Policy = PolicyFailFast
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = DefaultGracePeriod
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	c.Logging.ApplyDefaults()
	if c.Telemetry.Enabled() && c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
}

// Validate checks the struct tags, including the nested logging and
// telemetry sections.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return errors.InvalidConfig(appErr.Message, nil).WithDetails(appErr.Details)
		}
		return errors.InvalidConfig("validation failed", err)
	}
	return nil
}
