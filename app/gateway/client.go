package gateway

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"gearshare/app/echoServer/identity"
	"gearshare/util/httpx"
)

// Client forwards requests to the core service and hands back whatever
// status and body it answered with.
type Client struct {
	base string
	hc   *http.Client
}

func NewClient(base string) *Client {
	return &Client{base: base, hc: httpx.Client()}
}

// Forward replays the incoming request against the core service, keeping
// method, path, query string, identity header and body intact.
func (cl *Client) Forward(c echo.Context, body []byte) error {
	req := c.Request()
	url := cl.base + req.URL.Path
	if q := req.URL.RawQuery; q != "" {
		url += "?" + q
	}

	out, err := http.NewRequestWithContext(req.Context(), req.Method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	out.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if uid := req.Header.Get(identity.Header); uid != "" {
		out.Header.Set(identity.Header, uid)
	}

	resp, err := cl.hc.Do(out)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"message": "core service unreachable"})
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"message": "core service unreachable"})
	}
	return c.Blob(resp.StatusCode, echo.MIMEApplicationJSON, respBody)
}
