package config

import (
	"log/slog"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

func Load() App {
	_ = godotenv.Load()

	cfg := App{}
	if err := env.Parse(&cfg); err != nil {
		slog.Error("config parse failed", "err", err)
		panic(err)
	}
	return cfg
}

func LoadGateway() Gateway {
	_ = godotenv.Load()

	cfg := Gateway{}
	if err := env.Parse(&cfg); err != nil {
		slog.Error("config parse failed", "err", err)
		panic(err)
	}
	return cfg
}
