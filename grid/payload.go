package grid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"dbconsole/models"
)

// PayloadPaths are gjson paths locating the tabular parts inside an envelope's data.
type PayloadPaths struct {
	Header string
	Rows   string
	Total  string
}

var DefaultPayloadPaths = PayloadPaths{Header: "header", Rows: "rows", Total: "total"}

func (p PayloadPaths) withDefaults() PayloadPaths {
	if p.Header == "" {
		p.Header = DefaultPayloadPaths.Header
	}
	if p.Rows == "" {
		p.Rows = DefaultPayloadPaths.Rows
	}
	if p.Total == "" {
		p.Total = DefaultPayloadPaths.Total
	}
	return p
}

func isEmptyJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// DecodePayload extracts header, rows and the optional total from data.
// A missing or null data is an empty payload, not an error.
func DecodePayload(data []byte, paths PayloadPaths) (models.TabularPayload, error) {
	payload := models.TabularPayload{Header: []string{}, Rows: [][]any{}}
	if isEmptyJSON(data) {
		return payload, nil
	}
	if !gjson.ValidBytes(data) {
		return payload, fmt.Errorf("payload is not valid JSON")
	}
	paths = paths.withDefaults()
	root := gjson.ParseBytes(data)

	headerRes := root.Get(paths.Header)
	if headerRes.Exists() && headerRes.Type != gjson.Null && !headerRes.IsArray() {
		return payload, fmt.Errorf("payload %s is not an array", paths.Header)
	}
	for _, h := range headerRes.Array() {
		payload.Header = append(payload.Header, h.String())
	}

	rowsRes := root.Get(paths.Rows)
	if rowsRes.Exists() && rowsRes.Type != gjson.Null && !rowsRes.IsArray() {
		return payload, fmt.Errorf("payload %s is not an array", paths.Rows)
	}
	for i, r := range rowsRes.Array() {
		if !r.IsArray() {
			return payload, fmt.Errorf("payload row %d is not an array", i)
		}
		cells := r.Array()
		row := make([]any, len(cells))
		for j, c := range cells {
			row[j] = cellValue(c)
		}
		payload.Rows = append(payload.Rows, row)
	}

	if t := root.Get(paths.Total); t.Type == gjson.Number {
		total := int(t.Int())
		payload.Total = &total
	}
	return payload, nil
}

// cellValue keeps numbers as their JSON literal so integers past 2^53 survive.
func cellValue(c gjson.Result) any {
	if c.Type == gjson.Number {
		return json.Number(c.Raw)
	}
	return c.Value()
}

// DecodeCount reads a count endpoint's data: a bare integer, a numeric string, or an
// object carrying it under data, count or total.
func DecodeCount(data []byte) (int, error) {
	root := gjson.ParseBytes(bytes.TrimSpace(data))
	switch {
	case root.Type == gjson.Number:
		return int(root.Int()), nil
	case root.Type == gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(root.Str))
		if err == nil {
			return n, nil
		}
	case root.IsObject():
		for _, key := range []string{"data", "count", "total"} {
			if r := root.Get(key); r.Type == gjson.Number {
				return int(r.Int()), nil
			}
		}
	}
	return 0, fmt.Errorf("count payload is not an integer: %.64s", string(data))
}
