// Package editor holds the admin's unsaved copy of a content section and
// turns it into explicit commands against the content repository.
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/studio-site/internal/repository"
)

var (
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrUnknownSection   = errors.New("unknown section")
	ErrInvalidOperation = errors.New("invalid operation")
)

// Item is one entry of a list section.  ID is empty for items that were
// never saved.
type Item struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

// Draft is the editable state of one section.  Singleton sections use
// Fields; list sections use Items, whose positions become their order.
type Draft struct {
	Section   repository.Table `json:"section"`
	Singleton bool             `json:"singleton"`
	Fields    map[string]any   `json:"fields,omitempty"`
	Items     []Item           `json:"items,omitempty"`
}

// NewDraft returns an empty draft for a section.
func NewDraft(section string) (*Draft, error) {
	table, err := repository.ParseTable(section)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	desc, err := repository.Describe(table)
	if err != nil {
		return nil, err
	}
	d := &Draft{Section: table, Singleton: desc.Singleton}
	if d.Singleton {
		d.Fields = map[string]any{}
	} else {
		d.Items = []Item{}
	}
	return d, nil
}

// Reader is the read side of the content repository.
type Reader interface {
	List(ctx context.Context, table repository.Table) ([]repository.Row, error)
	Singleton(ctx context.Context, table repository.Table) (repository.Row, error)
}

// Load builds a draft from the stored section.
func Load(ctx context.Context, r Reader, section string) (*Draft, error) {
	d, err := NewDraft(section)
	if err != nil {
		return nil, err
	}
	if d.Singleton {
		row, err := r.Singleton(ctx, d.Section)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return d, nil
		case err != nil:
			return nil, err
		}
		d.Fields = editable(row)
		return d, nil
	}
	rows, err := r.List(ctx, d.Section)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		d.Items = append(d.Items, Item{ID: row.ID(), Fields: editable(row)})
	}
	return d, nil
}

// editable strips the store-assigned columns.  The order column is derived
// from the item position and dropped as well.
func editable(row repository.Row) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		switch k {
		case "id", "created_at", "updated_at", "order":
			continue
		}
		out[k] = v
	}
	return out
}

// Set merges fields into a singleton draft.
func (d *Draft) Set(fields map[string]any) error {
	if !d.Singleton {
		return fmt.Errorf("%w: %s is a list section", ErrInvalidOperation, d.Section)
	}
	if d.Fields == nil {
		d.Fields = map[string]any{}
	}
	for k, v := range fields {
		d.Fields[k] = v
	}
	return nil
}

// Append adds a new unsaved item at the end of the list.
func (d *Draft) Append(fields map[string]any) error {
	if err := d.requireList(); err != nil {
		return err
	}
	d.Items = append(d.Items, Item{Fields: copyFields(fields)})
	return nil
}

// Edit merges fields into the item at index.
func (d *Draft) Edit(index int, fields map[string]any) error {
	if err := d.requireIndex(index); err != nil {
		return err
	}
	item := &d.Items[index]
	if item.Fields == nil {
		item.Fields = map[string]any{}
	}
	for k, v := range fields {
		item.Fields[k] = v
	}
	return nil
}

// Remove deletes the item at index; later items move up.
func (d *Draft) Remove(index int) error {
	if err := d.requireIndex(index); err != nil {
		return err
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	return nil
}

// Move relocates the item at from so that it ends up at to.
func (d *Draft) Move(from, to int) error {
	if err := d.requireIndex(from); err != nil {
		return err
	}
	if err := d.requireIndex(to); err != nil {
		return err
	}
	item := d.Items[from]
	d.Items = append(d.Items[:from], d.Items[from+1:]...)
	d.Items = append(d.Items[:to], append([]Item{item}, d.Items[to:]...)...)
	return nil
}

func (d *Draft) requireList() error {
	if d.Singleton {
		return fmt.Errorf("%w: %s is a singleton section", ErrInvalidOperation, d.Section)
	}
	return nil
}

func (d *Draft) requireIndex(i int) error {
	if err := d.requireList(); err != nil {
		return err
	}
	if i < 0 || i >= len(d.Items) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(d.Items))
	}
	return nil
}

func copyFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
