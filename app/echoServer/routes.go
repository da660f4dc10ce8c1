package echoServer

import (
	"gearshare/app/echoServer/controller/booking"
	"gearshare/app/echoServer/controller/item"
	"gearshare/app/echoServer/controller/request"
	"gearshare/app/echoServer/controller/user"

	"github.com/labstack/echo/v4"
)

type C struct {
	User    *user.Controller
	Item    *item.Controller
	Booking *booking.Controller
	Request *request.Controller
}

func Register(e *echo.Echo, c C) {
	// Users
	e.POST("/users", c.User.Create)
	e.GET("/users", c.User.List)
	e.GET("/users/:id", c.User.Get)
	e.PATCH("/users/:id", c.User.Update)
	e.DELETE("/users/:id", c.User.Delete)

	// Items
	e.POST("/items", c.Item.Create)
	e.GET("/items", c.Item.ListOwn)
	e.GET("/items/search", c.Item.Search)
	e.GET("/items/:id", c.Item.Get)
	e.PATCH("/items/:id", c.Item.Update)
	e.POST("/items/:id/comment", c.Item.AddComment)

	// Bookings
	e.POST("/bookings", c.Booking.Create)
	e.GET("/bookings", c.Booking.ListForBooker)
	e.GET("/bookings/owner", c.Booking.ListForOwner)
	e.GET("/bookings/:id", c.Booking.Get)
	e.PATCH("/bookings/:id", c.Booking.Decide)

	// Requests
	e.POST("/requests", c.Request.Create)
	e.GET("/requests", c.Request.ListOwn)
	e.GET("/requests/all", c.Request.ListOthers)
	e.GET("/requests/:id", c.Request.Get)
}
