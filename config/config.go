package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the client configuration, loaded from environment variables.
type Config struct {
	APIBaseURL        string        `env:"VENTS_API_URL" envDefault:"https://api.cesivents.fr"`
	HTTPTimeout       time.Duration `env:"VENTS_HTTP_TIMEOUT" envDefault:"30s"`
	AccessTokenTTL    time.Duration `env:"VENTS_ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL   time.Duration `env:"VENTS_REFRESH_TOKEN_TTL" envDefault:"168h"`
	DatabasePath      string        `env:"VENTS_DB_PATH"`
	RequestsPerSecond float64       `env:"VENTS_REQUESTS_PER_SECOND" envDefault:"0"`
}

// Load reads the configuration from the environment and fills in defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment configuration: %w", err)
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(os.Getenv("HOME"), ".vents/vents.db")
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API base URL cannot be empty")
	}
	return cfg, nil
}
