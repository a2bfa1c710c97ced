package editor

import (
	"context"
	"fmt"

	"github.com/iliyamo/studio-site/internal/repository"
)

// Repo is the part of the content repository commands write through.
type Repo interface {
	Reader
	Create(ctx context.Context, table repository.Table, fields map[string]any) (repository.Row, error)
	Update(ctx context.Context, table repository.Table, id string, fields map[string]any) (repository.Row, error)
	Delete(ctx context.Context, table repository.Table, id string) error
	SaveSingleton(ctx context.Context, table repository.Table, fields map[string]any) (repository.Row, error)
}

// Command is one persisted change.  Name identifies the kind for status
// reporting; Action is the verb published with content change events.
type Command interface {
	Name() string
	Action() string
	Target() (repository.Table, string)
	Execute(ctx context.Context, r Repo) (repository.Row, error)
}

type SaveSingleton struct {
	Table  repository.Table
	Fields map[string]any
}

func (c SaveSingleton) Name() string                       { return "SaveSingleton" }
func (c SaveSingleton) Action() string                     { return "save" }
func (c SaveSingleton) Target() (repository.Table, string) { return c.Table, "" }
func (c SaveSingleton) Execute(ctx context.Context, r Repo) (repository.Row, error) {
	return r.SaveSingleton(ctx, c.Table, c.Fields)
}

type CreateItem struct {
	Table  repository.Table
	Fields map[string]any
}

func (c CreateItem) Name() string                       { return "CreateItem" }
func (c CreateItem) Action() string                     { return "create" }
func (c CreateItem) Target() (repository.Table, string) { return c.Table, "" }
func (c CreateItem) Execute(ctx context.Context, r Repo) (repository.Row, error) {
	return r.Create(ctx, c.Table, c.Fields)
}

type UpdateItem struct {
	Table  repository.Table
	ID     string
	Fields map[string]any
}

func (c UpdateItem) Name() string                       { return "UpdateItem" }
func (c UpdateItem) Action() string                     { return "update" }
func (c UpdateItem) Target() (repository.Table, string) { return c.Table, c.ID }
func (c UpdateItem) Execute(ctx context.Context, r Repo) (repository.Row, error) {
	return r.Update(ctx, c.Table, c.ID, c.Fields)
}

type DeleteItem struct {
	Table repository.Table
	ID    string
}

func (c DeleteItem) Name() string                       { return "DeleteItem" }
func (c DeleteItem) Action() string                     { return "delete" }
func (c DeleteItem) Target() (repository.Table, string) { return c.Table, c.ID }
func (c DeleteItem) Execute(ctx context.Context, r Repo) (repository.Row, error) {
	return nil, r.Delete(ctx, c.Table, c.ID)
}

// Commands diffs the draft against the stored rows of its section.  Every
// item gets its array position as order, stored rows absent from the draft
// are deleted, and deletes come last.
func (d *Draft) Commands(stored []repository.Row) []Command {
	if d.Singleton {
		return []Command{SaveSingleton{Table: d.Section, Fields: copyFields(d.Fields)}}
	}

	known := make(map[string]bool, len(stored))
	for _, row := range stored {
		known[row.ID()] = true
	}
	cmds := make([]Command, 0, len(d.Items)+len(stored))
	kept := make(map[string]bool, len(d.Items))
	for i, item := range d.Items {
		fields := copyFields(item.Fields)
		for _, k := range []string{"id", "created_at", "updated_at"} {
			delete(fields, k)
		}
		fields["order"] = i
		if item.ID != "" && known[item.ID] && !kept[item.ID] {
			kept[item.ID] = true
			cmds = append(cmds, UpdateItem{Table: d.Section, ID: item.ID, Fields: fields})
			continue
		}
		cmds = append(cmds, CreateItem{Table: d.Section, Fields: fields})
	}
	for _, row := range stored {
		if !kept[row.ID()] {
			cmds = append(cmds, DeleteItem{Table: d.Section, ID: row.ID()})
		}
	}
	return cmds
}

func describe(c Command) string {
	table, id := c.Target()
	if id == "" {
		return fmt.Sprintf("%s %s", c.Name(), table)
	}
	return fmt.Sprintf("%s %s/%s", c.Name(), table, id)
}
