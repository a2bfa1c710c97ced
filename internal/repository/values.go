package repository

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/iliyamo/studio-site/internal/model"
)

// Row is one content row keyed by column name.  Besides the descriptor
// columns it always carries id, created_at and updated_at.
type Row map[string]any

// ID returns the row id ("" when absent).
func (r Row) ID() string {
	s, _ := r["id"].(string)
	return s
}

// serverColumns are assigned by the store; payloads may echo them back but
// they are never written from input.
var serverColumns = map[string]bool{"id": true, "created_at": true, "updated_at": true}

type assignment struct {
	column Column
	value  any
}

// normalize checks fields against the descriptor and converts them to the
// values handed to the driver.  The result is sorted by column declaration
// order so generated statements are deterministic.
func normalize(d *Descriptor, fields map[string]any) ([]assignment, error) {
	out := make([]assignment, 0, len(fields))
	for name, raw := range fields {
		if serverColumns[name] {
			continue
		}
		col, ok := d.Column(name)
		if !ok {
			return nil, violation("unknown column %q for %s", name, d.Table)
		}
		v, err := convert(col, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, assignment{column: col, value: v})
	}
	pos := make(map[string]int, len(d.Columns))
	for i, c := range d.Columns {
		pos[c.Name] = i
	}
	sort.Slice(out, func(i, j int) bool { return pos[out[i].column.Name] < pos[out[j].column.Name] })
	return out, nil
}

func convert(col Column, raw any) (any, error) {
	switch col.Kind {
	case KindText:
		if raw == nil {
			return nil, nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, violation("%s must be a string", col.Name)
		}
		if col.Icon && s != "" && !model.ValidIcon(s) {
			return nil, violation("unknown icon %q", s)
		}
		return s, nil

	case KindInt:
		n, ok := toInt(raw)
		if !ok {
			return nil, violation("%s must be an integer", col.Name)
		}
		if col.Order && n < 0 {
			return nil, violation("%s must be non-negative", col.Name)
		}
		return n, nil

	case KindFloat:
		if raw == nil && col.Focal {
			return model.DefaultFocal, nil
		}
		f, ok := toFloat(raw)
		if !ok {
			return nil, violation("%s must be a number", col.Name)
		}
		if col.Focal && (f < 0 || f > 1 || math.IsNaN(f)) {
			return nil, violation("%s must be within [0,1]", col.Name)
		}
		return f, nil

	case KindList:
		items, ok := toStrings(raw)
		if !ok {
			return nil, violation("%s must be a list of strings", col.Name)
		}
		b, err := json.Marshal(items)
		if err != nil {
			return nil, violation("%s: %v", col.Name, err)
		}
		return string(b), nil
	}
	return nil, violation("unsupported column %s", col.Name)
}

func toInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func toStrings(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case nil:
		return []string{}, true
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// timeValue scans timestamps from any of the supported drivers.  pgx and
// go-sql-driver (parseTime=true) hand over time.Time; sqlite may hand over
// the stored text.
type timeValue struct {
	t     time.Time
	valid bool
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

func (v *timeValue) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		v.valid = false
		return nil
	case time.Time:
		v.t, v.valid = s.UTC(), true
		return nil
	case string:
		return v.parse(s)
	case []byte:
		return v.parse(string(s))
	}
	return fmt.Errorf("repository: cannot scan %T into timestamp", src)
}

func (v *timeValue) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			v.t, v.valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("repository: unrecognised timestamp %q", s)
}

func (v timeValue) value() any {
	if !v.valid {
		return nil
	}
	return v.t
}
