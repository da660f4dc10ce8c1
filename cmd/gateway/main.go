package main

import (
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"gearshare/app/echoServer"
	"gearshare/app/echoServer/validation"
	"gearshare/app/gateway"
	"gearshare/config"
)

func main() {
	cfg := config.LoadGateway()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{"status": "ok"})
	})

	gateway.Register(e, &gateway.Handler{
		Client: gateway.NewClient(cfg.CoreURL),
		V:      validator.New(),
		Log:    log,
	})

	log.Info("starting gateway", "port", cfg.Port, "core", cfg.CoreURL)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
