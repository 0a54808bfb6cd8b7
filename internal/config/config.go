package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/360coachinglab/powerprofile-app/curve"
	"github.com/360coachinglab/powerprofile-app/estimate"
	"github.com/360coachinglab/powerprofile-app/internal/xslog"
)

type Config struct {
	LogLevel         xslog.Level `env:"LOG_LEVEL" envDefault:"info"`
	Workers          int         `env:"POWERPROFILE_WORKERS" envDefault:"4"`
	CoefficientsFile string      `env:"POWERPROFILE_COEFFICIENTS_FILE"`
	CoefficientSet   string      `env:"POWERPROFILE_COEFFICIENT_SET" envDefault:"default"`
	Durations        string      `env:"POWERPROFILE_DURATIONS"`
	OutDir           string      `env:"POWERPROFILE_OUT_DIR" envDefault:"powerprofile_out"`
	DatabasePath     string      `env:"POWERPROFILE_DB"`
}

func Read() (Config, error) {
	return env.ParseAs[Config]()
}

// ReadFrom parses vars instead of the process environment.
func ReadFrom(vars map[string]string) (Config, error) {
	return env.ParseAsWithOptions[Config](env.Options{Environment: vars})
}

// Registry loads the coefficient registry, falling back to the built-in sets.
func (c Config) Registry() (*estimate.Registry, error) {
	if c.CoefficientsFile == "" {
		return estimate.Builtin(), nil
	}
	return estimate.LoadCoefficients(c.CoefficientsFile)
}

// Coefficients resolves the configured set name.
func (c Config) Coefficients() (estimate.CoefficientSet, error) {
	reg, err := c.Registry()
	if err != nil {
		return estimate.CoefficientSet{}, err
	}
	return reg.Lookup(c.CoefficientSet)
}

// DurationSet parses the configured durations, or returns the default set.
func (c Config) DurationSet() (curve.DurationSet, error) {
	if c.Durations == "" {
		return curve.DefaultDurations(), nil
	}
	ds, err := curve.ParseDurationSet(c.Durations)
	if err != nil {
		return nil, fmt.Errorf("parse POWERPROFILE_DURATIONS: %w", err)
	}
	return ds, nil
}
