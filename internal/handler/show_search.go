package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/studio-site/internal/repository"
)

// ShowSearchQuery defines filters & pagination for searching shows.
type ShowSearchQuery struct {
	Title    string // substring of title or title_translated
	Category string // exact category or category_translated, case-insensitive
	Page     int
	PageSize int
}

// SearchShows answers GET /api/shows?title=&category=&page=&page_size=.
// Results keep the display order of the shows table.
func (h *ContentHandler) SearchShows(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	ps, _ := strconv.Atoi(c.QueryParam("page_size"))
	if ps < 1 {
		ps = 20
	}
	if ps > 100 {
		ps = 100
	}
	q := ShowSearchQuery{
		Title:    strings.TrimSpace(c.QueryParam("title")),
		Category: strings.TrimSpace(c.QueryParam("category")),
		Page:     page,
		PageSize: ps,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Store.List(ctx, repository.TableShows)
	if err != nil {
		h.Log.Error("content: search shows failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"data": nil, "error": "Failed to fetch content"})
	}
	items, total := filterShows(rows, q)
	return c.JSON(http.StatusOK, echo.Map{
		"data":      items,
		"total":     total,
		"page":      q.Page,
		"page_size": q.PageSize,
		"error":     nil,
	})
}

// filterShows applies q to rows and returns the requested page together
// with the number of matches.
func filterShows(rows []repository.Row, q ShowSearchQuery) ([]repository.Row, int) {
	title := strings.ToLower(q.Title)
	matched := make([]repository.Row, 0, len(rows))
	for _, r := range rows {
		if title != "" && !strings.Contains(lower(r, "title"), title) && !strings.Contains(lower(r, "title_translated"), title) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(str(r, "category"), q.Category) && !strings.EqualFold(str(r, "category_translated"), q.Category) {
			continue
		}
		matched = append(matched, r)
	}

	// bound the page before multiplying so a huge page cannot overflow
	if q.Page < 1 || q.PageSize < 1 || q.Page-1 >= (len(matched)+q.PageSize-1)/q.PageSize {
		return []repository.Row{}, len(matched)
	}
	start := (q.Page - 1) * q.PageSize
	if start >= len(matched) {
		return []repository.Row{}, len(matched)
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], len(matched)
}

func str(r repository.Row, col string) string {
	s, _ := r[col].(string)
	return s
}

func lower(r repository.Row, col string) string { return strings.ToLower(str(r, col)) }
