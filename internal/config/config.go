package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr  string        `env:"HTTP_ADDR" envDefault:":8001"`
	DBPath    string        `env:"DB_PATH" envDefault:"data/geodrop.db"`
	LogLevel  slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
