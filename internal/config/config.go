package config

import "github.com/caarlos0/env/v11"

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,notEmpty"`
	RedisURL      string `env:"REDIS_URL,notEmpty"`
	BaseURL       string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	AssetDir      string `env:"ASSET_DIR" envDefault:"/tmp/adserver-assets"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN"`
}

func Load() (Config, error) {
	return env.ParseAs[Config]()
}
