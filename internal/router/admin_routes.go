package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/studio-site/internal/handler"
	"github.com/iliyamo/studio-site/internal/middleware"
	"github.com/iliyamo/studio-site/internal/utils"
)

// RegisterAdmin registers the admin API under /admin/api.  Every route
// requires a valid JWT with the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AuthHandler, ch *handler.ContentHandler, sh *handler.SectionHandler, uh *handler.UploadHandler, jwtSecret string) {
	g := e.Group(
		"/admin/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleAdmin),
	)

	g.GET("/me", a.Me)

	// ---- Content rows ----
	g.GET("/content/:table", ch.AdminList)
	g.POST("/content/:table", ch.AdminCreate)
	g.PUT("/content/:table/:id", ch.AdminUpdate)
	g.PATCH("/content/:table/:id", ch.AdminUpdate)
	g.DELETE("/content/:table/:id", ch.AdminDelete)

	// ---- Editor ----
	g.GET("/sections/:section", sh.Get)
	g.PUT("/sections/:section", sh.Put)
	g.POST("/sections/:section/edits", sh.Edits)
	g.POST("/focal-point", handler.FocalPoint)

	// ---- Media ----
	g.POST("/uploads", uh.Upload)
}
