package router // package router defines how HTTP routes are registered

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/studio-site/internal/handler"
)

// RegisterRoutes registers the health checks and the metrics endpoint.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, metrics http.Handler) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// RegisterAuth registers the admin session routes.  Login and refresh are
// rate limited.  Logout takes a refresh token or a bearer token and so
// sits outside the protected group.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/admin/auth")
	g.POST("/login", a.Login, limit)
	g.POST("/refresh", a.Refresh, limit)
	g.POST("/logout", a.Logout)
}

// RegisterPublic registers the read API and the form endpoints.  cache
// wraps the reads, limit the submissions.
func RegisterPublic(e *echo.Echo, ch *handler.ContentHandler, sh *handler.SubmissionHandler, cache, limit echo.MiddlewareFunc) {
	e.GET("/api/content/:table", ch.List, cache)
	e.GET("/api/shows", ch.SearchShows, cache)
	e.POST("/api/pitch", sh.Pitch, limit)
	e.POST("/api/contact", sh.Contact, limit)
}

// RegisterPages registers the server-rendered public pages.
func RegisterPages(e *echo.Echo, p *handler.PageHandler, cache echo.MiddlewareFunc) {
	e.GET("/", p.Home, cache)
	e.GET("/shows", p.Shows, cache)
	e.GET("/join", p.Join, cache)
	e.GET("/contact", p.Contact, cache)
}
