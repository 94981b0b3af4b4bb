package upstream

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

var ErrNotConfigured = errors.New("upstream not configured")

// IsFailure reports whether err came from talking to an upstream.
func IsFailure(err error) bool {
	return errors.Is(err, ErrUpstreamStatus) || errors.Is(err, ErrUnreachable) || errors.Is(err, ErrNotConfigured)
}

// HTTPError maps a failed upstream call to the error the API answers with:
// 503 when the upstream is not configured, 504 on deadline, 502 otherwise.
func HTTPError(err error) *echo.HTTPError {
	code := http.StatusBadGateway
	switch {
	case errors.Is(err, ErrNotConfigured):
		code = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	}
	return echo.NewHTTPError(code, err.Error()).SetInternal(err)
}
