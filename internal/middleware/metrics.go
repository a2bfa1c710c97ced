package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/studio-site/internal/metrics"
)

// Metrics records the status and latency of every request under its route
// pattern, so /api/content/roles and /api/content/shows share one series.
func Metrics(col *metrics.Collector) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			col.ObserveRequest(c.Request().Method, route, status, time.Since(start).Seconds())
			return err
		}
	}
}
