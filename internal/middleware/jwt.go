package middleware // reusable HTTP middleware for the public API and the admin area

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/studio-site/internal/utils"
)

// Context keys set by JWTAuth.
const (
	ContextAdminID = "admin_id"
	ContextRole    = "role"
)

// JWTAuth validates a Bearer access token and stores the admin id and role
// claims in the echo context.  Handlers read them with AdminID and
// middleware further down reads the role via RequireRole.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			sub, role, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(ContextAdminID, sub)
			c.Set(ContextRole, role)
			return next(c)
		}
	}
}
