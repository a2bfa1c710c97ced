// Package repository contains data access logic separated from HTTP handlers.
// This file implements the generic CRUD layer over the allow-listed content
// tables.  Statements are generated from the table descriptors: identifiers
// come from the descriptors and are quoted by the dialect, values are always
// bound as parameters.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/studio-site/internal/database"
)

// ContentRepo runs CRUD statements against the content tables.
type ContentRepo struct {
	db    *database.DB
	now   func() time.Time
	newID func() string
}

// NewContentRepo constructs a ContentRepo with the provided DB handle.
func NewContentRepo(db *database.DB) *ContentRepo {
	return &ContentRepo{
		db:    db,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
}

// WithClock replaces the timestamp source.  Tests use it to get distinct,
// predictable created_at values.
func (r *ContentRepo) WithClock(now func() time.Time) *ContentRepo {
	r.now = now
	return r
}

// List returns all rows of a table: by order ascending for ordered tables,
// newest first otherwise.  The result is never nil.
func (r *ContentRepo) List(ctx context.Context, table Table) ([]Row, error) {
	d, err := Describe(table)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s %s", r.selectList(d), r.db.Dialect.Quote(string(d.Table)), r.orderBy(d))
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.Table, err)
	}
	defer rows.Close()

	out := make([]Row, 0)
	for rows.Next() {
		row, err := scanRow(rows, d)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", d.Table, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", d.Table, err)
	}
	return out, nil
}

// Get fetches one row by id.  It returns ErrNotFound if no row matches.
func (r *ContentRepo) Get(ctx context.Context, table Table, id string) (Row, error) {
	d, err := Describe(table)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE id = %s",
		r.selectList(d), r.db.Dialect.Quote(string(d.Table)), r.db.Dialect.Placeholder(1))
	return r.queryOne(ctx, d, q, id)
}

// Singleton fetches the single row of a singleton table, or ErrNotFound
// when the table is empty.
func (r *ContentRepo) Singleton(ctx context.Context, table Table) (Row, error) {
	d, err := Describe(table)
	if err != nil {
		return nil, err
	}
	if !d.Singleton {
		return nil, violation("%s is not a singleton table", d.Table)
	}
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at DESC LIMIT 1",
		r.selectList(d), r.db.Dialect.Quote(string(d.Table)))
	return r.queryOne(ctx, d, q)
}

// Create inserts a row built from fields and returns it as stored.  Missing
// focal points default to the center and a missing order appends the row
// after the current last one.
func (r *ContentRepo) Create(ctx context.Context, table Table, fields map[string]any) (Row, error) {
	d, err := Describe(table)
	if err != nil {
		return nil, err
	}
	assigns, err := normalize(d, fields)
	if err != nil {
		return nil, err
	}

	if d.Singleton {
		if _, err := r.Singleton(ctx, table); err == nil {
			return nil, ErrSingletonExists
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	given := make(map[string]bool, len(assigns))
	for _, a := range assigns {
		given[a.column.Name] = true
	}
	for _, c := range d.Columns {
		if given[c.Name] {
			continue
		}
		switch {
		case c.Focal:
			assigns = append(assigns, assignment{column: c, value: 0.5})
		case c.Order:
			next, err := r.nextOrder(ctx, d)
			if err != nil {
				return nil, err
			}
			assigns = append(assigns, assignment{column: c, value: next})
		}
	}

	id := r.newID()
	now := r.now()
	cols := []string{"id"}
	args := []any{id}
	for _, a := range assigns {
		cols = append(cols, r.db.Dialect.Quote(a.column.Name))
		args = append(args, a.value)
	}
	if d.Singleton {
		cols = append(cols, "singleton_key")
		args = append(args, 1)
	}
	cols = append(cols, "created_at", "updated_at")
	args = append(args, now, now)

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.db.Dialect.Quote(string(d.Table)), strings.Join(cols, ", "), r.db.Dialect.Placeholders(1, len(args)))
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		// a concurrent create won the singleton_key unique index
		if d.Singleton {
			if _, serr := r.Singleton(ctx, table); serr == nil {
				return nil, ErrSingletonExists
			}
		}
		return nil, fmt.Errorf("create %s: %w", d.Table, err)
	}

	// Perform a follow-up SELECT so callers receive the row exactly as stored.
	return r.Get(ctx, table, id)
}

// Update sets the named columns plus updated_at and returns the updated row.
// It returns ErrNotFound if no row matches id.
func (r *ContentRepo) Update(ctx context.Context, table Table, id string, fields map[string]any) (Row, error) {
	d, err := Describe(table)
	if err != nil {
		return nil, err
	}
	assigns, err := normalize(d, fields)
	if err != nil {
		return nil, err
	}

	sets := make([]string, 0, len(assigns)+1)
	args := make([]any, 0, len(assigns)+2)
	for i, a := range assigns {
		sets = append(sets, fmt.Sprintf("%s = %s", r.db.Dialect.Quote(a.column.Name), r.db.Dialect.Placeholder(i+1)))
		args = append(args, a.value)
	}
	sets = append(sets, "updated_at = "+r.db.Dialect.Placeholder(len(args)+1))
	args = append(args, r.now())
	args = append(args, id)

	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s",
		r.db.Dialect.Quote(string(d.Table)), strings.Join(sets, ", "), r.db.Dialect.Placeholder(len(args)))
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("update %s: %w", d.Table, err)
	}
	// RowsAffected is not used to detect a missing row: MySQL reports 0 when
	// the values did not change.  The read-back answers ErrNotFound instead.
	return r.Get(ctx, table, id)
}

// Delete removes a row by id.  Deleting a missing row is not an error.
func (r *ContentRepo) Delete(ctx context.Context, table Table, id string) error {
	d, err := Describe(table)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE id = %s", r.db.Dialect.Quote(string(d.Table)), r.db.Dialect.Placeholder(1))
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("delete %s: %w", d.Table, err)
	}
	return nil
}

// SaveSingleton updates the row of a singleton table, creating it first
// when the table is still empty.
func (r *ContentRepo) SaveSingleton(ctx context.Context, table Table, fields map[string]any) (Row, error) {
	existing, err := r.Singleton(ctx, table)
	switch {
	case errors.Is(err, ErrNotFound):
		return r.Create(ctx, table, fields)
	case err != nil:
		return nil, err
	}
	return r.Update(ctx, table, existing.ID(), fields)
}

func (r *ContentRepo) nextOrder(ctx context.Context, d *Descriptor) (int64, error) {
	q := fmt.Sprintf("SELECT COALESCE(MAX(%s), -1) + 1 FROM %s",
		r.db.Dialect.Quote(orderColumn.Name), r.db.Dialect.Quote(string(d.Table)))
	var next int64
	if err := r.db.QueryRowContext(ctx, q).Scan(&next); err != nil {
		return 0, fmt.Errorf("next order %s: %w", d.Table, err)
	}
	return next, nil
}

func (r *ContentRepo) selectList(d *Descriptor) string {
	cols := make([]string, 0, len(d.Columns)+3)
	cols = append(cols, "id")
	for _, c := range d.Columns {
		cols = append(cols, r.db.Dialect.Quote(c.Name))
	}
	cols = append(cols, "created_at", "updated_at")
	return strings.Join(cols, ", ")
}

func (r *ContentRepo) orderBy(d *Descriptor) string {
	if d.Ordered {
		return fmt.Sprintf("ORDER BY %s ASC, created_at ASC, id ASC", r.db.Dialect.Quote(orderColumn.Name))
	}
	return "ORDER BY created_at DESC, id DESC"
}

func (r *ContentRepo) queryOne(ctx context.Context, d *Descriptor, q string, args ...any) (Row, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", d.Table, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get %s: %w", d.Table, err)
		}
		return nil, ErrNotFound
	}
	row, err := scanRow(rows, d)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", d.Table, err)
	}
	return row, nil
}

// scanRow reads the columns produced by selectList.
func scanRow(rows *sql.Rows, d *Descriptor) (Row, error) {
	var id sql.NullString
	var created, updated timeValue
	holders := make([]any, 0, len(d.Columns)+3)
	holders = append(holders, &id)
	for _, c := range d.Columns {
		switch c.Kind {
		case KindInt:
			holders = append(holders, new(sql.NullInt64))
		case KindFloat:
			holders = append(holders, new(sql.NullFloat64))
		default:
			holders = append(holders, new(sql.NullString))
		}
	}
	holders = append(holders, &created, &updated)
	if err := rows.Scan(holders...); err != nil {
		return nil, err
	}

	row := Row{"id": id.String, "created_at": created.value(), "updated_at": updated.value()}
	for i, c := range d.Columns {
		switch h := holders[i+1].(type) {
		case *sql.NullInt64:
			row[c.Name] = nullable(h.Valid, h.Int64)
		case *sql.NullFloat64:
			row[c.Name] = nullable(h.Valid, h.Float64)
		case *sql.NullString:
			if c.Kind != KindList {
				row[c.Name] = nullable(h.Valid, h.String)
				continue
			}
			items := []string{}
			if h.Valid && h.String != "" {
				if err := json.Unmarshal([]byte(h.String), &items); err != nil {
					return nil, fmt.Errorf("decode %s: %w", c.Name, err)
				}
			}
			row[c.Name] = items
		}
	}
	return row, nil
}

func nullable[T any](valid bool, v T) any {
	if !valid {
		return nil
	}
	return v
}
