package middleware

import "github.com/labstack/echo/v4"

// AdminID returns the authenticated admin id, or "" outside the admin area.
func AdminID(c echo.Context) string {
	if s, ok := c.Get(ContextAdminID).(string); ok {
		return s
	}
	return ""
}

// clientKey identifies the caller for rate limiting: the admin id when
// authenticated, "anon" otherwise.
func clientKey(c echo.Context) string {
	if id := AdminID(c); id != "" {
		return id
	}
	return "anon"
}
