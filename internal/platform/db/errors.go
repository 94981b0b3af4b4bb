package db

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrNotConfigured is returned by repositories whose database was not
// configured for this process.
var ErrNotConfigured = errors.New("database not configured")

// HTTPError maps a repository error to a response: 503 when the database is
// not configured, 500 otherwise.
func HTTPError(err error) *echo.HTTPError {
	code := http.StatusInternalServerError
	if errors.Is(err, ErrNotConfigured) {
		code = http.StatusServiceUnavailable
	}
	return echo.NewHTTPError(code, err.Error()).SetInternal(err)
}
