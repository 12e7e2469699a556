package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// AppURL is the public origin of the surrounding web application; browser
	// WebSocket connections are only accepted from this origin.
	AppURL string `env:"APP_URL"`

	MaxConnections       int     `env:"MAX_CONNECTIONS" default:"10000"`
	MaxConnectionsPerIP  int     `env:"MAX_CONNECTIONS_PER_IP" default:"20"`
	ConnectionsPerSecond float64 `env:"CONNECTIONS_PER_SECOND" default:"10"`
	ConnectionBurst      int     `env:"CONNECTION_BURST" default:"10"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.AppEnv == "production" && cfg.AppURL == "" {
		return fmt.Errorf("APP_URL is required in production")
	}

	if cfg.MaxConnections <= 0 {
		return fmt.Errorf("MAX_CONNECTIONS must be positive, got %d", cfg.MaxConnections)
	}
	if cfg.MaxConnectionsPerIP <= 0 {
		return fmt.Errorf("MAX_CONNECTIONS_PER_IP must be positive, got %d", cfg.MaxConnectionsPerIP)
	}
	if cfg.MaxConnectionsPerIP > cfg.MaxConnections {
		return fmt.Errorf("MAX_CONNECTIONS_PER_IP (%d) cannot exceed MAX_CONNECTIONS (%d)", cfg.MaxConnectionsPerIP, cfg.MaxConnections)
	}
	if cfg.ConnectionsPerSecond <= 0 {
		return fmt.Errorf("CONNECTIONS_PER_SECOND must be positive, got %g", cfg.ConnectionsPerSecond)
	}
	if cfg.ConnectionBurst <= 0 {
		return fmt.Errorf("CONNECTION_BURST must be positive, got %d", cfg.ConnectionBurst)
	}

	return nil
}

// IsDevelopment reports whether the app runs outside production, which
// relaxes the WebSocket origin check to additionally allow localhost.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv != "production"
}
