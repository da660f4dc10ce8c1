package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"gearshare/app/echoServer/identity"
)

type Handler struct {
	Client *Client
	V      *validator.Validate
	Log    *slog.Logger
}

func Register(e *echo.Echo, h *Handler) {
	// Users
	e.POST("/users", h.checked(func() any { return &createUserReq{} }))
	e.PATCH("/users/:id", h.checked(func() any { return &updateUserReq{} }))
	e.GET("/users", h.passthrough)
	e.GET("/users/:id", h.passthrough)
	e.DELETE("/users/:id", h.passthrough)

	// Items
	e.POST("/items", h.identified(h.checked(func() any { return &createItemReq{} })))
	e.PATCH("/items/:id", h.identified(h.passthroughWithBody))
	e.GET("/items", h.identified(h.paged(h.passthrough)))
	e.GET("/items/search", h.paged(h.passthrough))
	e.GET("/items/:id", h.identified(h.passthrough))
	e.POST("/items/:id/comment", h.identified(h.checked(func() any { return &commentReq{} })))

	// Bookings
	e.POST("/bookings", h.identified(h.createBooking))
	e.GET("/bookings", h.identified(h.paged(h.passthrough)))
	e.GET("/bookings/owner", h.identified(h.paged(h.passthrough)))
	e.GET("/bookings/:id", h.identified(h.passthrough))
	e.PATCH("/bookings/:id", h.identified(h.decideBooking))

	// Requests
	e.POST("/requests", h.identified(h.checked(func() any { return &createRequestReq{} })))
	e.GET("/requests", h.identified(h.passthrough))
	e.GET("/requests/all", h.identified(h.paged(h.passthrough)))
	e.GET("/requests/:id", h.identified(h.passthrough))
}

// identified requires the caller header before the request goes anywhere.
func (h *Handler) identified(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := identity.UserID(c); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		return next(c)
	}
}

// paged rejects malformed from/size before forwarding.
func (h *Handler) paged(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if v := c.QueryParam("from"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid from"})
			}
		}
		if v := c.QueryParam("size"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid size"})
			}
		}
		return next(c)
	}
}

// checked binds the body into a fresh shape, validates the tags, then
// forwards the raw bytes untouched.
func (h *Handler) checked(newShape func() any) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
		}
		shape := newShape()
		if err := json.Unmarshal(body, shape); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
		}
		if err := h.V.Struct(shape); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"message": "validation error",
				"errors":  err.Error(),
			})
		}
		return h.Client.Forward(c, body)
	}
}

func (h *Handler) passthrough(c echo.Context) error {
	return h.Client.Forward(c, nil)
}

func (h *Handler) passthroughWithBody(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	return h.Client.Forward(c, body)
}

// createBooking adds the edge-only time checks on top of the shape check:
// end must not already be in the past.
func (h *Handler) createBooking(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	var req createBookingReq
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	if req.End.Before(time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "end must not be in the past"})
	}
	return h.Client.Forward(c, body)
}

func (h *Handler) decideBooking(c echo.Context) error {
	if _, err := strconv.ParseBool(c.QueryParam("approved")); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid approved"})
	}
	return h.Client.Forward(c, nil)
}
