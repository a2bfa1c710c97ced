package model

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode copies a column-keyed row (as returned by the content repository)
// into one of the typed structs above.  NULL columns leave the zero value;
// numbers are converted weakly so that JSON-decoded float64 values fill int
// fields.
func Decode(row map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return fmt.Errorf("model: decoder: %w", err)
	}
	if err := dec.Decode(row); err != nil {
		return fmt.Errorf("model: decode: %w", err)
	}
	return nil
}

// DecodeAll decodes a list of rows into a slice of T.
func DecodeAll[T any](rows []map[string]any) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		var v T
		if err := Decode(r, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
