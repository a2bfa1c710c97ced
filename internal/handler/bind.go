package handler

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/labstack/echo/v4"
)

// maxJSONBody bounds admin JSON payloads.
const maxJSONBody = 1 << 20

// bindFields decodes a JSON object body, keeping numbers as json.Number so
// integers stay exact.
func bindFields(c echo.Context) (map[string]any, error) {
	var fields map[string]any
	if err := decodeJSON(c, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("body must be a JSON object")
	}
	return fields, nil
}

func decodeJSON(c echo.Context, v any) error {
	dec := json.NewDecoder(io.LimitReader(c.Request().Body, maxJSONBody))
	dec.UseNumber()
	return dec.Decode(v)
}
