package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings holds process-level configuration read from the environment.
type Settings struct {
	// RateTables is a YAML rate table document; empty uses the embedded tables.
	RateTables string `env:"SHAHO_RATE_TABLES"`
	// GradeCSV adds or replaces prefecture grade rows from a CSV file.
	GradeCSV string `env:"SHAHO_GRADE_CSV"`

	HTTPAddr        string        `env:"SHAHO_HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHAHO_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"SHAHO_CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	LogLevel string `env:"SHAHO_LOG_LEVEL" envDefault:"info"`

	// DefaultHeadcount is used when a request or batch file omits the
	// employer headcount.
	DefaultHeadcount int `env:"SHAHO_DEFAULT_HEADCOUNT" envDefault:"50"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSettings parses and validates Settings.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return s, err
	}
	if s.DefaultHeadcount < 0 {
		return s, fmt.Errorf("SHAHO_DEFAULT_HEADCOUNT must not be negative, got %d", s.DefaultHeadcount)
	}
	if s.ShutdownTimeout <= 0 {
		return s, fmt.Errorf("SHAHO_SHUTDOWN_TIMEOUT must be positive, got %s", s.ShutdownTimeout)
	}
	return s, nil
}
