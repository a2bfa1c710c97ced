package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/studio-site/internal/middleware"
	"github.com/iliyamo/studio-site/internal/queue"
	"github.com/iliyamo/studio-site/internal/repository"
)

// ContentStore is the content repository as seen by the handlers.
type ContentStore interface {
	List(ctx context.Context, table repository.Table) ([]repository.Row, error)
	Get(ctx context.Context, table repository.Table, id string) (repository.Row, error)
	Singleton(ctx context.Context, table repository.Table) (repository.Row, error)
	Create(ctx context.Context, table repository.Table, fields map[string]any) (repository.Row, error)
	Update(ctx context.Context, table repository.Table, id string, fields map[string]any) (repository.Row, error)
	Delete(ctx context.Context, table repository.Table, id string) error
	SaveSingleton(ctx context.Context, table repository.Table, fields map[string]any) (repository.Row, error)
}

// NotifyFunc receives every applied admin write.
type NotifyFunc func(ctx context.Context, ev queue.ContentChangedEvent)

// ContentHandler serves the public read API and the admin CRUD passthrough.
type ContentHandler struct {
	Store  ContentStore
	Notify NotifyFunc
	Log    *zap.Logger
}

func NewContentHandler(store ContentStore, notify NotifyFunc, log *zap.Logger) *ContentHandler {
	return &ContentHandler{Store: store, Notify: notify, Log: log}
}

// List answers GET /api/content/:table with {data, error}.
func (h *ContentHandler) List(c echo.Context) error {
	table, err := repository.ParseTable(c.Param("table"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid table"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Store.List(ctx, table)
	if err != nil {
		h.Log.Error("content: list failed", zap.String("table", string(table)), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"data": nil, "error": "Failed to fetch content"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows, "error": nil})
}

// AdminList answers GET /admin/api/content/:table.
func (h *ContentHandler) AdminList(c echo.Context) error {
	return h.List(c)
}

// AdminCreate answers POST /admin/api/content/:table with the stored row.
func (h *ContentHandler) AdminCreate(c echo.Context) error {
	table, fields, ok, err := h.tableAndBody(c)
	if !ok {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	row, err := h.Store.Create(ctx, table, fields)
	if err != nil {
		return h.writeError(c, "create", table, err)
	}
	h.changed(c, table, row.ID(), "create")
	return c.JSON(http.StatusCreated, echo.Map{"data": row, "error": nil})
}

// AdminUpdate answers PUT /admin/api/content/:table/:id.
func (h *ContentHandler) AdminUpdate(c echo.Context) error {
	table, fields, ok, err := h.tableAndBody(c)
	if !ok {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	row, err := h.Store.Update(ctx, table, c.Param("id"), fields)
	if err != nil {
		return h.writeError(c, "update", table, err)
	}
	h.changed(c, table, row.ID(), "update")
	return c.JSON(http.StatusOK, echo.Map{"data": row, "error": nil})
}

// AdminDelete answers DELETE /admin/api/content/:table/:id.  Deleting a
// missing row succeeds.
func (h *ContentHandler) AdminDelete(c echo.Context) error {
	table, err := repository.ParseTable(c.Param("table"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid table"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id := c.Param("id")
	if err := h.Store.Delete(ctx, table, id); err != nil {
		return h.writeError(c, "delete", table, err)
	}
	h.changed(c, table, id, "delete")
	return c.NoContent(http.StatusNoContent)
}

// tableAndBody validates the table and binds a JSON object body.  When ok
// is false the response has been written and err is its result.
func (h *ContentHandler) tableAndBody(c echo.Context) (repository.Table, map[string]any, bool, error) {
	table, err := repository.ParseTable(c.Param("table"))
	if err != nil {
		return "", nil, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid table"})
	}
	fields, err := bindFields(c)
	if err != nil {
		return "", nil, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return table, fields, true, nil
}

func (h *ContentHandler) changed(c echo.Context, table repository.Table, id, action string) {
	if h.Notify == nil {
		return
	}
	h.Notify(c.Request().Context(), queue.ContentChangedEvent{
		Table: string(table), ID: id, Action: action, AdminID: middleware.AdminID(c),
	})
}

// writeError maps repository errors onto status codes.
func (h *ContentHandler) writeError(c echo.Context, op string, table repository.Table, err error) error {
	switch {
	case errors.Is(err, repository.ErrInvalidTable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid table"})
	case errors.Is(err, repository.ErrSingletonExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConstraintViolation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	h.Log.Error("content: write failed", zap.String("op", op), zap.String("table", string(table)), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"data": nil, "error": "Failed to " + op + " content"})
}
