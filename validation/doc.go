// Package validation provides input validation utilities for yake.
//
// It supports both struct tag validation (using the validator library) for
// configuration structs and programmatic validation with error collection
// for target definitions.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    Shell  string `mapstructure:"shell" validate:"required"`
//	    Policy string `mapstructure:"policy" validate:"oneof=fail-fast skip-dependents"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("docker.name", name)
//	err := v.Validate()
package validation
