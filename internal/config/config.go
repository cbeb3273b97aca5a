package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"LodgeGuard"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"lodgeguard"`
	}

	// Redis backs the per-org orchestration lock. Optional: when the addr is
	// empty the orchestrator falls back to an in-process lock.
	Redis struct {
		Addr string `envconfig:"REDIS_ADDR" default:""`
	}

	// NATS carries fire-and-forget domain events. Optional.
	NATS struct {
		URL string `envconfig:"NATS_URL" default:""`
	}

	Partner struct {
		BaseURL string        `envconfig:"PARTNER_BANKING_URL" default:""`
		APIKey  string        `envconfig:"PARTNER_BANKING_API_KEY" default:""`
		Timeout time.Duration `envconfig:"PARTNER_BANKING_TIMEOUT" default:"5s"`
	}

	Securing struct {
		Schedule string `envconfig:"SECURING_SCHEDULE" default:"daily"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
