package request

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"gearshare/app/echoServer/identity"
	rs "gearshare/service/request"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /requests
func (h *Controller) Create(c echo.Context) error {
	uid, err := identity.UserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	var req CreateRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Create(c.Request().Context(), uid, req.Description)
	if err != nil {
		return h.fail(c, "request create", err)
	}
	return c.JSON(http.StatusCreated, toResp(out))
}

// GET /requests
func (h *Controller) ListOwn(c echo.Context) error {
	uid, err := identity.UserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	views, err := h.Svc.ListOwn(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, "request list", err)
	}
	return c.JSON(http.StatusOK, toViewResps(views))
}

// GET /requests/all?from=&size=
func (h *Controller) ListOthers(c echo.Context) error {
	uid, err := identity.UserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	from, size := 0, 10
	if v := c.QueryParam("from"); v != "" {
		if from, err = strconv.Atoi(v); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid from"})
		}
	}
	if v := c.QueryParam("size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid size"})
		}
	}

	views, err := h.Svc.ListOthers(c.Request().Context(), uid, from, size)
	if err != nil {
		return h.fail(c, "request list all", err)
	}
	return c.JSON(http.StatusOK, toViewResps(views))
}

// GET /requests/:id
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
		return h.fail(c, "request get", err)
	}
	return c.JSON(http.StatusOK, toViewResp(out))
}

func toViewResps(views []rs.View) []RequestResp {
	out := make([]RequestResp, 0, len(views))
	for i := range views {
		out = append(out, toViewResp(&views[i]))
	}
	return out
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	h.Log.Error(op, "err", err, "req_id", c.Response().Header().Get(echo.HeaderXRequestID))
	switch rs.Code(err) {
	case rs.ErrUserNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	case rs.ErrRequestNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "request not found"})
	case rs.ErrInvalidPagination:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid pagination"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
