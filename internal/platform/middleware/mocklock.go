package middleware

import (
	"sync"

	"github.com/labstack/echo/v4"
)

// ReadLock holds l for the duration of each request. The mock routes use it
// with the refresher's read lock so a rebuild never runs under a request.
func ReadLock(l sync.Locker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l.Lock()
			defer l.Unlock()
			return next(c)
		}
	}
}
