package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds process settings read from the environment. Command-line
// flags take precedence.
type Env struct {
	Config  string `env:"AGGREGATE_CONFIG"   envDefault:"aggregate.yaml"`
	Verbose bool   `env:"AGGREGATE_VERBOSE"`
	NoColor bool   `env:"AGGREGATE_NO_COLOR"`
	Format  string `env:"AGGREGATE_FORMAT"   envDefault:"nquads"`
}

// ParseEnv populates an Env from environment variables
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
