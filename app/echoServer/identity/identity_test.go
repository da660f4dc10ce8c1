package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func ctxWithHeader(v string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if v != "" {
		req.Header.Set(Header, v)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestUserID(t *testing.T) {
	id, err := UserID(ctxWithHeader("42"))
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestUserID_Missing(t *testing.T) {
	_, err := UserID(ctxWithHeader(""))
	require.Error(t, err)
}

func TestUserID_Invalid(t *testing.T) {
	for _, v := range []string{"abc", "0", "-5", "1.5"} {
		_, err := UserID(ctxWithHeader(v))
		require.Error(t, err, v)
	}
}
