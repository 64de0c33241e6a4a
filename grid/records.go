package grid

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"dbconsole/models"
)

// BuildRecords zips every row with the header and attaches models.RowKeyField.
//
// The row key is the zero-based row index unless keyField names a header column,
// in which case that column's value is used. Domain keys are trusted to be unique.
// A short row yields nil for its missing trailing fields; values beyond the header
// are not carried.
func BuildRecords(header []string, rows [][]any, keyField string) []models.Record {
	keyIdx := -1
	if keyField != "" {
		keyIdx = slices.Index(header, keyField)
	}

	records := make([]models.Record, 0, len(rows))
	for i, row := range rows {
		rec := make(models.Record, len(header)+1)
		for j, col := range header {
			if j < len(row) {
				rec[col] = row[j]
			} else {
				rec[col] = nil
			}
		}

		key := strconv.Itoa(i)
		if keyIdx >= 0 && keyIdx < len(row) && row[keyIdx] != nil {
			key = formatKey(row[keyIdx])
		}
		rec[models.RowKeyField] = key
		records = append(records, rec)
	}
	return records
}

func formatKey(v any) string {
	switch k := v.(type) {
	case string:
		return k
	case json.Number:
		return k.String()
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64)
	case []byte:
		return string(k)
	default:
		return fmt.Sprint(k)
	}
}
