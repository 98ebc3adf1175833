// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the service settings. Command-line flags in main take
// precedence over the environment.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `env:"ROSTER_DB_PATH" envDefault:"heroes.db"`
	// Listen is the HTTP listen address.
	Listen string `env:"ROSTER_LISTEN" envDefault:":8080"`
	// DevMode loads migrations from the working tree instead of the
	// embedded copies.
	DevMode bool `env:"ROSTER_DEV_MODE" envDefault:"false"`
	// AdminRoutes mounts the /debug handlers (tailsql console, backup
	// download). They carry no auth, so this defaults off.
	AdminRoutes bool `env:"ROSTER_ADMIN_ROUTES" envDefault:"false"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
