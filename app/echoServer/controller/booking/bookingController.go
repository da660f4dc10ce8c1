package booking

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"gearshare/app/echoServer/identity"
	bs "gearshare/service/booking"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /bookings
func (h *Controller) Create(c echo.Context) error {
	uid, err := identity.UserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	var req CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Create(c.Request().Context(), uid, bs.CreateInput{
		ItemID: req.ItemID,
		Start:  *req.Start,
		End:    *req.End,
	})
	if err != nil {
		return h.fail(c, "booking create", err)
	}
	return c.JSON(http.StatusCreated, toResp(out))
}

// PATCH /bookings/:id?approved=
func (h *Controller) Decide(c echo.Context) error {
	uid, err := identity.UserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	approved, err := strconv.ParseBool(c.QueryParam("approved"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "approved must be true or false"})
	}

	out, err := h.Svc.Decide(c.Request().Context(), uid, id, approved)
	if err != nil {
		return h.fail(c, "booking decide", err)
	}
	return c.JSON(http.StatusOK, toResp(out))
}

// GET /bookings/:id
func (h *Controller) Get(c echo.Context) error {
	uid, err := identity.UserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	out, err := h.Svc.Get(c.Request().Context(), uid, id)
	if err != nil {
		return h.fail(c, "booking get", err)
	}
	return c.JSON(http.StatusOK, toResp(out))
}

// GET /bookings?state=&from=&size=
func (h *Controller) ListForBooker(c echo.Context) error {
	return h.list(c, "booking list", h.Svc.ListForBooker)
}

// GET /bookings/owner?state=&from=&size=
func (h *Controller) ListForOwner(c echo.Context) error {
	return h.list(c, "booking owner list", h.Svc.ListForOwner)
}

type listFn func(ctx context.Context, callerID int64, state string, from, size int) ([]bs.Booking, error)

func (h *Controller) list(c echo.Context, op string, fn listFn) error {
	uid, err := identity.UserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	state := c.QueryParam("state")
	if state == "" {
		state = "ALL"
	}
	from, size, err := pagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	out, err := fn(c.Request().Context(), uid, state, from, size)
	if err != nil {
		return h.fail(c, op, err)
	}
	return c.JSON(http.StatusOK, toResps(out))
}

func pagination(c echo.Context) (from, size int, err error) {
	from, size = 0, 10
	if v := c.QueryParam("from"); v != "" {
		if from, err = strconv.Atoi(v); err != nil {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid from")
		}
	}
	if v := c.QueryParam("size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid size")
		}
	}
	return from, size, nil
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	h.Log.Error(op, "err", err, "req_id", c.Response().Header().Get(echo.HeaderXRequestID))
	switch bs.Code(err) {
	case bs.ErrUserNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	case bs.ErrItemNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
	case bs.ErrBookingNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
	case bs.ErrNotItemHost:
		// modeled as not-found so non-owners can't probe booking existence
		return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
	case bs.ErrNotAuthorized:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
	case bs.ErrInvalidTimeRange:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "end must be after start"})
	case bs.ErrSelfBooking:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cannot book own item"})
	case bs.ErrItemNotAvailable:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "item is not available"})
	case bs.ErrAlreadyDecided:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "booking already decided"})
	case bs.ErrUnsupportedState:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Unknown state: " + c.QueryParam("state")})
	case bs.ErrInvalidPagination:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid pagination"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
