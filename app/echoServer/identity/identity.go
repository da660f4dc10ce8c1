// Caller identity is taken from a plain header, trusted as-is. There is no
// cryptographic verification of the caller.
package identity

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

const Header = "X-Sharer-User-Id"

func UserID(c echo.Context) (int64, error) {
	v := c.Request().Header.Get(Header)
	if v == "" {
		return 0, errors.New("missing " + Header + " header")
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + Header + " header")
	}
	return id, nil
}
