package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/studio-site/internal/database"
	"github.com/iliyamo/studio-site/internal/mail"
	"github.com/iliyamo/studio-site/internal/queue"
	"github.com/iliyamo/studio-site/internal/repository"
	"github.com/iliyamo/studio-site/internal/storage"
)

func testRepo(t *testing.T) *repository.ContentRepo {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "handler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background(), repository.Schema(db.Dialect)))
	return repository.NewContentRepo(db)
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type recorder struct {
	mu     sync.Mutex
	events []queue.ContentChangedEvent
}

func (r *recorder) notify(_ context.Context, ev queue.ContentChangedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func contentServer(store ContentStore, notify NotifyFunc) *echo.Echo {
	h := NewContentHandler(store, notify, zap.NewNop())
	e := echo.New()
	e.GET("/api/content/:table", h.List)
	e.GET("/admin/api/content/:table", h.AdminList)
	e.POST("/admin/api/content/:table", h.AdminCreate)
	e.PUT("/admin/api/content/:table/:id", h.AdminUpdate)
	e.DELETE("/admin/api/content/:table/:id", h.AdminDelete)
	return e
}

type failingStore struct{ ContentStore }

func (failingStore) List(context.Context, repository.Table) ([]repository.Row, error) {
	return nil, errors.New("connection refused")
}

func TestContentList(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	for _, r := range []struct {
		title string
		order int
	}{{"Producer", 2}, {"Editor", 0}, {"Colorist", 1}} {
		_, err := repo.Create(ctx, repository.TableRoles, map[string]any{"title": r.title, "order": r.order})
		require.NoError(t, err)
	}
	e := contentServer(repo, nil)

	rec := do(e, http.MethodGet, "/api/content/roles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Nil(t, body["error"])
	data := body["data"].([]any)
	require.Len(t, data, 3)
	var titles []string
	for _, row := range data {
		titles = append(titles, row.(map[string]any)["title"].(string))
	}
	assert.Equal(t, []string{"Editor", "Colorist", "Producer"}, titles)

	rec = do(e, http.MethodGet, "/api/content/shows", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decode(t, rec)["data"])
}

func TestContentList_InvalidTable(t *testing.T) {
	e := contentServer(testRepo(t), nil)
	rec := do(e, http.MethodGet, "/api/content/users", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid table", decode(t, rec)["error"])
}

func TestContentList_StoreFailure(t *testing.T) {
	e := contentServer(failingStore{}, nil)
	rec := do(e, http.MethodGet, "/api/content/roles", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Nil(t, body["data"])
	assert.Equal(t, "Failed to fetch content", body["error"])
}

func TestAdminContentCRUD(t *testing.T) {
	rec := &recorder{}
	e := contentServer(testRepo(t), rec.notify)

	res := do(e, http.MethodPost, "/admin/api/content/social_links", `{"label":"Instagram","href":"https://instagram.com/x","icon":"instagram"}`)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	row := decode(t, res)["data"].(map[string]any)
	id := row["id"].(string)
	assert.NotEmpty(t, id)
	assert.EqualValues(t, 0, row["order"])

	res = do(e, http.MethodPut, "/admin/api/content/social_links/"+id, `{"label":"IG"}`)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.Equal(t, "IG", decode(t, res)["data"].(map[string]any)["label"])

	res = do(e, http.MethodPut, "/admin/api/content/social_links/missing", `{"label":"IG"}`)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = do(e, http.MethodPost, "/admin/api/content/social_links", `{"label":"X","icon":"myspace"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = do(e, http.MethodPost, "/admin/api/content/social_links", `{"nope":"x"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = do(e, http.MethodPost, "/admin/api/content/users", `{"email":"x"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = do(e, http.MethodPost, "/admin/api/content/social_links", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = do(e, http.MethodDelete, "/admin/api/content/social_links/"+id, "")
	assert.Equal(t, http.StatusNoContent, res.Code)
	res = do(e, http.MethodDelete, "/admin/api/content/social_links/"+id, "")
	assert.Equal(t, http.StatusNoContent, res.Code)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	var actions []string
	for _, ev := range rec.events {
		assert.Equal(t, "social_links", ev.Table)
		actions = append(actions, ev.Action)
	}
	assert.Equal(t, []string{"create", "update", "delete", "delete"}, actions)
}

func TestAdminCreate_SingletonExists(t *testing.T) {
	e := contentServer(testRepo(t), nil)
	res := do(e, http.MethodPost, "/admin/api/content/site_settings", `{"site_name":"One"}`)
	require.Equal(t, http.StatusCreated, res.Code)
	res = do(e, http.MethodPost, "/admin/api/content/site_settings", `{"site_name":"Two"}`)
	assert.Equal(t, http.StatusConflict, res.Code)
}

// ---- submissions ----

type fakeMailer struct {
	configured bool
	id         string
	err        error
	sent       []mail.Message
}

func (f *fakeMailer) Configured() bool { return f.configured }

func (f *fakeMailer) Send(_ context.Context, m mail.Message) (string, error) {
	f.sent = append(f.sent, m)
	return f.id, f.err
}

func submissionServer(m Mailer) *echo.Echo {
	h := &SubmissionHandler{Mail: m, PitchTo: "pitches@example.com", ContactTo: "hello@example.com", Log: zap.NewNop()}
	e := echo.New()
	e.POST("/api/pitch", h.Pitch)
	e.POST("/api/contact", h.Contact)
	return e
}

func TestSubmission_MissingFields(t *testing.T) {
	m := &fakeMailer{configured: true, id: "em_1"}
	e := submissionServer(m)
	for _, body := range []string{
		`{"name":"Ada","email":"ada@example.com"}`,
		`{"name":"  ","email":"ada@example.com","pitch":"A show"}`,
		`not json`,
	} {
		rec := do(e, http.MethodPost, "/api/pitch", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Missing required fields", decode(t, rec)["error"])
	}
	// a contact form carries message, not pitch
	rec := do(e, http.MethodPost, "/api/contact", `{"name":"Ada","email":"ada@example.com","pitch":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, m.sent)
}

func TestSubmission_NotConfigured(t *testing.T) {
	m := &fakeMailer{}
	rec := do(submissionServer(m), http.MethodPost, "/api/pitch", `{"name":"Ada","email":"ada@example.com","pitch":"A show"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["emailSent"])
	assert.Equal(t, "Email service not configured", body["message"])
	assert.Empty(t, m.sent)
}

func TestSubmission_Sent(t *testing.T) {
	m := &fakeMailer{configured: true, id: "em_42"}
	rec := do(submissionServer(m), http.MethodPost, "/api/contact", `{"name":"Ada","email":"ada@example.com","message":"Hello <b>there</b>"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["emailSent"])
	assert.Equal(t, "em_42", body["id"])

	require.Len(t, m.sent, 1)
	assert.Equal(t, []string{"hello@example.com"}, m.sent[0].To)
	assert.Equal(t, "ada@example.com", m.sent[0].ReplyTo)
	assert.Equal(t, "New Contact Message from Ada", m.sent[0].Subject)
	assert.NotContains(t, m.sent[0].HTML, "<b>there</b>")
}

func TestSubmission_ProviderError(t *testing.T) {
	m := &fakeMailer{configured: true, err: mail.ErrSend}
	rec := do(submissionServer(m), http.MethodPost, "/api/pitch", `{"name":"Ada","email":"ada@example.com","pitch":"A show"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to send email", decode(t, rec)["error"])
}

// ---- uploads ----

type fakeUploader struct {
	configured bool
	url        string
	err        error
	got        []byte
}

func (f *fakeUploader) Configured() bool { return f.configured }

func (f *fakeUploader) Upload(_ context.Context, filename, _ string, body io.Reader) (string, error) {
	f.got, _ = io.ReadAll(body)
	if f.err != nil {
		return "", f.err
	}
	return f.url + "/" + filename, nil
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/admin/api/uploads", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func uploadServer(u Uploader, maxBytes int64) *echo.Echo {
	h := &UploadHandler{Storage: u, MaxBytes: maxBytes, Log: zap.NewNop()}
	e := echo.New()
	e.POST("/admin/api/uploads", h.Upload)
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestUpload(t *testing.T) {
	u := &fakeUploader{configured: true, url: "https://cdn.example.com/media"}
	rec := serve(uploadServer(u, 0), multipartRequest(t, "file", "hero.jpg", []byte("jpeg")))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "https://cdn.example.com/media/hero.jpg", decode(t, rec)["url"])
	assert.Equal(t, []byte("jpeg"), u.got)
}

func TestUpload_NotConfigured(t *testing.T) {
	rec := serve(uploadServer(nil, 0), multipartRequest(t, "file", "hero.jpg", []byte("jpeg")))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Storage not configured", decode(t, rec)["error"])

	rec = serve(uploadServer(&fakeUploader{}, 0), multipartRequest(t, "file", "hero.jpg", []byte("jpeg")))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUpload_Failures(t *testing.T) {
	u := &fakeUploader{configured: true, err: storage.ErrUpload}
	rec := serve(uploadServer(u, 0), multipartRequest(t, "file", "hero.jpg", []byte("jpeg")))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Upload failed", decode(t, rec)["error"])

	rec = serve(uploadServer(&fakeUploader{configured: true}, 0), multipartRequest(t, "other", "hero.jpg", []byte("jpeg")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(uploadServer(&fakeUploader{configured: true}, 64), multipartRequest(t, "file", "big.jpg", bytes.Repeat([]byte("x"), 4096)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

// ---- sections ----

func sectionServer(store *repository.ContentRepo, notify NotifyFunc) *echo.Echo {
	h := &SectionHandler{Store: store, Notify: notify, Log: zap.NewNop()}
	e := echo.New()
	e.GET("/admin/api/sections/:section", h.Get)
	e.PUT("/admin/api/sections/:section", h.Put)
	e.POST("/admin/api/sections/:section/edits", h.Edits)
	e.POST("/admin/api/focal-point", FocalPoint)
	return e
}

func TestSectionPutRecomputesOrder(t *testing.T) {
	repo := testRepo(t)
	e := sectionServer(repo, nil)

	rec := do(e, http.MethodPut, "/admin/api/sections/navigation",
		`{"items":[{"fields":{"label":"Home","href":"/"}},{"fields":{"label":"Shows","href":"/shows"}}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rows, err := repo.List(context.Background(), repository.TableNavigation)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.EqualValues(t, 0, rows[0]["order"])
	assert.EqualValues(t, 1, rows[1]["order"])

	// move Shows first through the edit endpoint
	rec = do(e, http.MethodPost, "/admin/api/sections/navigation/edits", `{"operations":[{"op":"move","from":1,"to":0}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rows, err = repo.List(context.Background(), repository.TableNavigation)
	require.NoError(t, err)
	assert.Equal(t, "Shows", rows[0]["label"])
	assert.Equal(t, "Home", rows[1]["label"])
}

func TestSectionErrors(t *testing.T) {
	e := sectionServer(testRepo(t), nil)

	rec := do(e, http.MethodPost, "/admin/api/sections/roles/edits", `{"operations":[{"op":"edit","index":3,"fields":{"title":"x"}}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/admin/api/sections/users", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodPut, "/admin/api/sections/roles", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "items required", decode(t, rec)["error"])

	rec = do(e, http.MethodPut, "/admin/api/sections/roles", `{"items":[{"fields":{"nope":"x"}}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	results := body["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "failed", results[0].(map[string]any)["status"])
}

func TestSectionSingleton(t *testing.T) {
	repo := testRepo(t)
	rec := &recorder{}
	e := sectionServer(repo, rec.notify)

	res := do(e, http.MethodPut, "/admin/api/sections/shows_content", `{"fields":{"title":"Our Shows","subtitle":"New season"}}`)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	draft := decode(t, res)["draft"].(map[string]any)
	assert.Equal(t, true, draft["singleton"])
	assert.Equal(t, "New season", draft["fields"].(map[string]any)["subtitle"])

	row, err := repo.Singleton(context.Background(), repository.TableShowsContent)
	require.NoError(t, err)
	assert.Equal(t, "Our Shows", row["title"])

	rec.mu.Lock()
	assert.Len(t, rec.events, 1)
	rec.mu.Unlock()
}

func TestFocalPoint(t *testing.T) {
	e := sectionServer(testRepo(t), nil)
	rec := do(e, http.MethodPost, "/admin/api/focal-point", `{"x":50,"y":25,"width":100,"height":100}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, 0.5, body["x"])
	assert.Equal(t, 0.25, body["y"])
	assert.Equal(t, "50% 25%", body["css"])

	rec = do(e, http.MethodPost, "/admin/api/focal-point", `{"x":500,"y":-3,"width":100,"height":100}`)
	body = decode(t, rec)
	assert.Equal(t, 1.0, body["x"])
	assert.Equal(t, 0.0, body["y"])
}

func TestSearchShows(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	for i, s := range []struct{ title, category string }{
		{"Night Kitchen", "Food"},
		{"Street Eats", "Food"},
		{"Deep Water", "Documentary"},
	} {
		_, err := repo.Create(ctx, repository.TableShows, map[string]any{"title": s.title, "category": s.category, "order": i})
		require.NoError(t, err)
	}
	h := NewContentHandler(repo, nil, zap.NewNop())
	e := echo.New()
	e.GET("/api/shows", h.SearchShows)

	rec := do(e, http.MethodGet, "/api/shows?category=food", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 2, body["total"])
	data := body["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, "Night Kitchen", data[0].(map[string]any)["title"])

	rec = do(e, http.MethodGet, "/api/shows?title=WATER", "")
	body = decode(t, rec)
	assert.EqualValues(t, 1, body["total"])

	rec = do(e, http.MethodGet, "/api/shows?page=2&page_size=2", "")
	body = decode(t, rec)
	assert.EqualValues(t, 3, body["total"])
	data = body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Deep Water", data[0].(map[string]any)["title"])

	rec = do(e, http.MethodGet, "/api/shows?page=9", "")
	assert.Equal(t, []any{}, decode(t, rec)["data"])
}

func TestSearchShows_HugePage(t *testing.T) {
	rows := []repository.Row{{"title": "Night Kitchen"}, {"title": "Deep Water"}}
	assert.NotPanics(t, func() {
		items, total := filterShows(rows, ShowSearchQuery{Page: math.MaxInt, PageSize: 20})
		assert.Empty(t, items)
		assert.Equal(t, 2, total)
	})
	items, total := filterShows(rows, ShowSearchQuery{Page: 2, PageSize: 1})
	require.Len(t, items, 1)
	assert.Equal(t, "Deep Water", items[0]["title"])
	assert.Equal(t, 2, total)

	repo := testRepo(t)
	_, err := repo.Create(context.Background(), repository.TableShows, map[string]any{"title": "Night Kitchen"})
	require.NoError(t, err)
	e := echo.New()
	e.GET("/api/shows", NewContentHandler(repo, nil, zap.NewNop()).SearchShows)

	rec := do(e, http.MethodGet, "/api/shows?page=9223372036854775807&page_size=100", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, []any{}, body["data"])
	assert.EqualValues(t, 1, body["total"])
}
