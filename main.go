// Package main gearshare API.
//
// @title           gearshare API
// @version         1.0
// @description     peer-to-peer rental marketplace (users, items, bookings, requests).
// @BasePath        /
// @schemes         http
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"gearshare/app/echoServer"
	bookingctrl "gearshare/app/echoServer/controller/booking"
	itemctrl "gearshare/app/echoServer/controller/item"
	requestctrl "gearshare/app/echoServer/controller/request"
	userctrl "gearshare/app/echoServer/controller/user"
	"gearshare/app/echoServer/validation"
	"gearshare/config"
	bookingrepo "gearshare/repository/booking"
	itemrepo "gearshare/repository/item"
	requestrepo "gearshare/repository/request"
	userrepo "gearshare/repository/user"
	bookingsvc "gearshare/service/booking"
	itemsvc "gearshare/service/item"
	requestsvc "gearshare/service/request"
	usersvc "gearshare/service/user"
	"gearshare/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	ir := itemrepo.New(db)
	br := bookingrepo.New(db)
	rr := requestrepo.New(db)

	// services
	us := usersvc.New(ur)
	bs := bookingsvc.New(br, ur, ir)
	is := itemsvc.New(ir, ur, rr, bs)
	rs := requestsvc.New(rr, ur, ir)

	// controllers
	v := validator.New()
	userC := &userctrl.Controller{Svc: us, V: v, Log: log}
	itemC := &itemctrl.Controller{Svc: is, V: v, Log: log}
	bookingC := &bookingctrl.Controller{Svc: bs, V: v, Log: log}
	requestC := &requestctrl.Controller{Svc: rs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		User:    userC,
		Item:    itemC,
		Booking: bookingC,
		Request: requestC,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
