package item

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"gearshare/app/echoServer/identity"
	is "gearshare/service/item"
)

type Controller struct {
	Svc is.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /items
func (h *Controller) Create(c echo.Context) error {
	uid, err := identity.UserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	var req CreateItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Create(c.Request().Context(), uid, is.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		RequestID:   req.RequestID,
	})
	if err != nil {
		return h.fail(c, "item create", err)
	}
	return c.JSON(http.StatusCreated, toResp(out))
}

// PATCH /items/:id
func (h *Controller) Update(c echo.Context) error {
	uid, err := identity.UserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}

	out, err := h.Svc.Update(c.Request().Context(), uid, id, is.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		return h.fail(c, "item update", err)
	}
	return c.JSON(http.StatusOK, toResp(out))
}

// GET /items/:id
func (h *Controller) Get(c echo.Context) error {
	uid, err := identity.UserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	out, err := h.Svc.Get(c.Request().Context(), uid, id)
	if err != nil {
		return h.fail(c, "item get", err)
	}
	return c.JSON(http.StatusOK, toViewResp(out))
}

// GET /items?from=&size=
func (h *Controller) ListOwn(c echo.Context) error {
	uid, err := identity.UserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	from, size, err := pagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	views, err := h.Svc.ListByOwner(c.Request().Context(), uid, from, size)
	if err != nil {
		return h.fail(c, "item list", err)
	}
	out := make([]ItemViewResp, 0, len(views))
	for i := range views {
		out = append(out, toViewResp(&views[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GET /items/search?text=&from=&size=
func (h *Controller) Search(c echo.Context) error {
	from, size, err := pagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	items, err := h.Svc.Search(c.Request().Context(), c.QueryParam("text"), from, size)
	if err != nil {
		return h.fail(c, "item search", err)
	}
	out := make([]ItemResp, 0, len(items))
	for i := range items {
		out = append(out, toResp(&items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// POST /items/:id/comment
func (h *Controller) AddComment(c echo.Context) error {
	uid, err := identity.UserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req CommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.AddComment(c.Request().Context(), uid, id, req.Text)
	if err != nil {
		return h.fail(c, "comment create", err)
	}
	return c.JSON(http.StatusOK, CommentResp{
		ID:         out.ID,
		Text:       out.Text,
		AuthorName: out.AuthorName,
		Created:    out.Created,
	})
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
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
	switch is.Code(err) {
	case is.ErrUserNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	case is.ErrItemNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
	case is.ErrRequestNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "request not found"})
	case is.ErrNotOwner:
		// modeled as not-found so non-owners can't probe item existence
		return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
	case is.ErrNoCompletedBooking:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "no completed booking on this item"})
	case is.ErrInvalidPagination:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid pagination"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
