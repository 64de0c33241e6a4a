package grid

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// FormatValue renders a record value for text output. Decoded payload numbers
// arrive as json.Number and print as sent; float64 integral values print without
// a decimal point.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case []any, map[string]any:
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprint(val)
	}
}
