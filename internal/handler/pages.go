package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/studio-site/internal/pages"
)

// PageHandler renders the public pages.  Store failures never surface
// here; the assembler falls back to defaults.
type PageHandler struct {
	Pages *pages.Assembler
}

func (h *PageHandler) Home(c echo.Context) error {
	ctx, cancel := pageContext(c)
	defer cancel()
	return c.Render(http.StatusOK, "home", h.Pages.Home(ctx))
}

func (h *PageHandler) Shows(c echo.Context) error {
	ctx, cancel := pageContext(c)
	defer cancel()
	return c.Render(http.StatusOK, "shows", h.Pages.Shows(ctx))
}

func (h *PageHandler) Join(c echo.Context) error {
	ctx, cancel := pageContext(c)
	defer cancel()
	return c.Render(http.StatusOK, "join", h.Pages.Join(ctx))
}

func (h *PageHandler) Contact(c echo.Context) error {
	ctx, cancel := pageContext(c)
	defer cancel()
	return c.Render(http.StatusOK, "contact", h.Pages.Contact(ctx))
}

func pageContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
