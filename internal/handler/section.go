package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/studio-site/internal/editor"
	"github.com/iliyamo/studio-site/internal/metrics"
	"github.com/iliyamo/studio-site/internal/middleware"
	"github.com/iliyamo/studio-site/internal/queue"
	"github.com/iliyamo/studio-site/internal/repository"
)

// SectionHandler exposes the admin editor: load a section as a draft, save
// a whole draft, or apply a batch of edits to the stored draft and save it.
type SectionHandler struct {
	Store   editor.Repo
	Notify  NotifyFunc
	Metrics *metrics.Collector
	Log     *zap.Logger
}

type sectionResp struct {
	Draft   *editor.Draft   `json:"draft"`
	Results []editor.Result `json:"results,omitempty"`
}

// Get answers GET /admin/api/sections/:section.
func (h *SectionHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := editor.Load(ctx, h.Store, c.Param("section"))
	if err != nil {
		return h.loadError(c, err)
	}
	return c.JSON(http.StatusOK, sectionResp{Draft: d})
}

// Put answers PUT /admin/api/sections/:section.  The body is the full draft:
// {"fields": {...}} for singleton sections, {"items": [...]} for lists.
func (h *SectionHandler) Put(c echo.Context) error {
	d, err := editor.NewDraft(c.Param("section"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown section"})
	}
	var body struct {
		Fields map[string]any `json:"fields"`
		Items  []editor.Item  `json:"items"`
	}
	if err := decodeJSON(c, &body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if d.Singleton {
		if err := d.Set(body.Fields); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	} else {
		// an explicit [] clears the section; a missing list is a mistake
		if body.Items == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "items required"})
		}
		d.Items = body.Items
	}
	return h.save(c, d)
}

// Edits answers POST /admin/api/sections/:section/edits with body
// {"operations": [...]}.
func (h *SectionHandler) Edits(c echo.Context) error {
	var body struct {
		Operations []editor.Operation `json:"operations"`
	}
	if err := decodeJSON(c, &body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := editor.Load(ctx, h.Store, c.Param("section"))
	if err != nil {
		return h.loadError(c, err)
	}
	if err := d.ApplyAll(body.Operations); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return h.save(c, d)
}

func (h *SectionHandler) save(c echo.Context, d *editor.Draft) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	adminID := middleware.AdminID(c)
	disp := editor.NewDispatcher(h.Store, h.Log, func(ctx context.Context, table repository.Table, id, action string) {
		if h.Notify != nil {
			h.Notify(ctx, queue.ContentChangedEvent{Table: string(table), ID: id, Action: action, AdminID: adminID})
		}
	})
	results, err := disp.Save(ctx, d)
	if err != nil {
		h.Log.Error("section: load stored rows", zap.String("section", string(d.Section)), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save section"})
	}
	for _, r := range results {
		h.Metrics.EditorCommand(r.Command, string(r.Status))
	}

	saved, err := editor.Load(ctx, h.Store, string(d.Section))
	if err != nil {
		saved = d
	}
	status := http.StatusOK
	if editor.Failed(results) {
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, sectionResp{Draft: saved, Results: results})
}

func (h *SectionHandler) loadError(c echo.Context, err error) error {
	if errors.Is(err, editor.ErrUnknownSection) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown section"})
	}
	h.Log.Error("section: load failed", zap.String("section", c.Param("section")), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load section"})
}

type focalReq struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FocalPoint answers POST /admin/api/focal-point: it converts a click inside
// an image preview into a normalized focal point.
func FocalPoint(c echo.Context) error {
	var req focalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p := editor.FocalPointFromClick(req.X, req.Y, req.Width, req.Height)
	return c.JSON(http.StatusOK, echo.Map{"x": p.X, "y": p.Y, "css": p.CSSPosition()})
}
