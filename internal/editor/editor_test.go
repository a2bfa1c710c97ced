package editor

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/studio-site/internal/database"
	"github.com/iliyamo/studio-site/internal/model"
	"github.com/iliyamo/studio-site/internal/repository"
)

func newRepo(t *testing.T) *repository.ContentRepo {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "editor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background(), repository.Schema(db.Dialect)))
	return repository.NewContentRepo(db)
}

func titles(t *testing.T, repo *repository.ContentRepo, table repository.Table) []string {
	t.Helper()
	rows, err := repo.List(context.Background(), table)
	require.NoError(t, err)
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		s, _ := r["title"].(string)
		out = append(out, s)
	}
	return out
}

func TestNewDraft(t *testing.T) {
	d, err := NewDraft("roles")
	require.NoError(t, err)
	assert.False(t, d.Singleton)

	d, err = NewDraft("home_content")
	require.NoError(t, err)
	assert.True(t, d.Singleton)

	_, err = NewDraft("users")
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestDraftListOperations(t *testing.T) {
	d, err := NewDraft("capabilities")
	require.NoError(t, err)

	require.NoError(t, d.Append(map[string]any{"title": "A"}))
	require.NoError(t, d.Append(map[string]any{"title": "B"}))
	require.NoError(t, d.Append(map[string]any{"title": "C"}))

	require.NoError(t, d.Move(2, 0))
	assert.Equal(t, "C", d.Items[0].Fields["title"])
	assert.Equal(t, "A", d.Items[1].Fields["title"])
	assert.Equal(t, "B", d.Items[2].Fields["title"])

	require.NoError(t, d.Move(0, 2))
	assert.Equal(t, "A", d.Items[0].Fields["title"])
	assert.Equal(t, "C", d.Items[2].Fields["title"])

	require.NoError(t, d.Edit(1, map[string]any{"title": "B2", "icon": "film"}))
	assert.Equal(t, "B2", d.Items[1].Fields["title"])
	assert.Equal(t, "film", d.Items[1].Fields["icon"])

	require.NoError(t, d.Remove(0))
	require.Len(t, d.Items, 2)
	assert.Equal(t, "B2", d.Items[0].Fields["title"])

	assert.ErrorIs(t, d.Edit(2, nil), ErrIndexOutOfRange)
	assert.ErrorIs(t, d.Remove(-1), ErrIndexOutOfRange)
	assert.ErrorIs(t, d.Move(0, 5), ErrIndexOutOfRange)
	assert.ErrorIs(t, d.Set(map[string]any{"title": "x"}), ErrInvalidOperation)
}

func TestDraftApply(t *testing.T) {
	d, err := NewDraft("navigation")
	require.NoError(t, err)

	err = d.ApplyAll([]Operation{
		{Op: "append", Fields: map[string]any{"label": "Home"}},
		{Op: "append", Fields: map[string]any{"label": "Shows"}},
		{Op: "move", From: 1, To: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, "Shows", d.Items[0].Fields["label"])

	err = d.ApplyAll([]Operation{{Op: "remove", Index: 0}, {Op: "remove", Index: 3}})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, d.Apply(Operation{Op: "explode"}), ErrInvalidOperation)

	s, err := NewDraft("site_settings")
	require.NoError(t, err)
	require.NoError(t, s.Apply(Operation{Op: "set", Fields: map[string]any{"site_name": "Studio"}}))
	assert.Equal(t, "Studio", s.Fields["site_name"])
	assert.ErrorIs(t, s.Append(nil), ErrInvalidOperation)
}

func TestCommands(t *testing.T) {
	d, err := NewDraft("roles")
	require.NoError(t, err)
	d.Items = []Item{
		{ID: "r2", Fields: map[string]any{"title": "Two", "id": "r2", "order": 7}},
		{Fields: map[string]any{"title": "New"}},
		{ID: "gone", Fields: map[string]any{"title": "Unknown id"}},
	}
	stored := []repository.Row{{"id": "r1"}, {"id": "r2"}}

	cmds := d.Commands(stored)
	require.Len(t, cmds, 4)

	up, ok := cmds[0].(UpdateItem)
	require.True(t, ok)
	assert.Equal(t, "r2", up.ID)
	assert.Equal(t, map[string]any{"title": "Two", "order": 0}, up.Fields)

	create, ok := cmds[1].(CreateItem)
	require.True(t, ok)
	assert.Equal(t, 1, create.Fields["order"])

	_, ok = cmds[2].(CreateItem)
	assert.True(t, ok)

	del, ok := cmds[3].(DeleteItem)
	require.True(t, ok)
	assert.Equal(t, "r1", del.ID)
}

func TestDispatcher_SaveListSection(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	var changes []string
	disp := NewDispatcher(repo, zap.NewNop(), func(_ context.Context, table repository.Table, _ string, action string) {
		changes = append(changes, string(table)+":"+action)
	})

	d, err := Load(ctx, repo, "roles")
	require.NoError(t, err)
	require.NoError(t, d.Append(map[string]any{"title": "Producer"}))
	require.NoError(t, d.Append(map[string]any{"title": "Editor"}))
	results, err := disp.Save(ctx, d)
	require.NoError(t, err)
	assert.False(t, Failed(results))
	assert.Equal(t, []string{"Producer", "Editor"}, titles(t, repo, repository.TableRoles))
	assert.Equal(t, []string{"roles:create", "roles:create"}, changes)

	// reorder and drop one; orders are rewritten from positions
	d, err = Load(ctx, repo, "roles")
	require.NoError(t, err)
	require.Len(t, d.Items, 2)
	require.NoError(t, d.Append(map[string]any{"title": "Colorist"}))
	require.NoError(t, d.Move(2, 0))
	require.NoError(t, d.Remove(1))
	results, err = disp.Save(ctx, d)
	require.NoError(t, err)
	assert.False(t, Failed(results))
	assert.Equal(t, []string{"Colorist", "Editor"}, titles(t, repo, repository.TableRoles))

	rows, err := repo.List(ctx, repository.TableRoles)
	require.NoError(t, err)
	for i, r := range rows {
		assert.EqualValues(t, i, r["order"])
	}
}

func TestDispatcher_ReportsFailures(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	disp := NewDispatcher(repo, nil, nil)

	d, err := NewDraft("capabilities")
	require.NoError(t, err)
	require.NoError(t, d.Append(map[string]any{"title": "Ok", "icon": "camera"}))
	require.NoError(t, d.Append(map[string]any{"title": "Bad", "icon": "rocket"}))

	results, err := disp.Save(ctx, d)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, StatusApplied, results[0].Status)
	assert.NotEmpty(t, results[0].ID)
	assert.Equal(t, StatusFailed, results[1].Status)
	assert.ErrorIs(t, results[1].Err, repository.ErrConstraintViolation)
	assert.Contains(t, results[1].Error, "rocket")
	assert.True(t, Failed(results))
}

func TestDispatcher_SaveSingleton(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	disp := NewDispatcher(repo, nil, nil)

	d, err := Load(ctx, repo, "contact_content")
	require.NoError(t, err)
	require.NoError(t, d.Set(map[string]any{"email": "hi@studio.test"}))
	results, err := disp.Save(ctx, d)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "SaveSingleton", results[0].Command)
	assert.Equal(t, StatusApplied, results[0].Status)

	d, err = Load(ctx, repo, "contact_content")
	require.NoError(t, err)
	assert.Equal(t, "hi@studio.test", d.Fields["email"])
	assert.NotContains(t, d.Fields, "id")

	require.NoError(t, d.Set(map[string]any{"form_title": "Write us"}))
	_, err = disp.Save(ctx, d)
	require.NoError(t, err)

	rows, err := repo.List(ctx, repository.TableContactContent)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Write us", rows[0]["form_title"])
	assert.Equal(t, "hi@studio.test", rows[0]["email"])
}

func TestFocalPointFromClick(t *testing.T) {
	assert.Equal(t, model.FocalPoint{X: 0, Y: 0}, FocalPointFromClick(0, 0, 800, 600))
	assert.Equal(t, model.FocalPoint{X: 1, Y: 1}, FocalPointFromClick(800, 600, 800, 600))
	assert.Equal(t, model.FocalPoint{X: 0.25, Y: 0.5}, FocalPointFromClick(200, 300, 800, 600))
	assert.Equal(t, model.FocalPoint{X: 0, Y: 1}, FocalPointFromClick(-40, 900, 800, 600))
	assert.Equal(t, model.Center(), FocalPointFromClick(10, 10, 0, 600))
	assert.Equal(t, model.Center(), FocalPointFromClick(10, 10, 800, -1))

	p := FocalPointFromClick(math.NaN(), 10, 800, 600)
	assert.Equal(t, 0.5, p.X)
}
