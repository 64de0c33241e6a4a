package grid

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	require.Equal(t, "", FormatValue(nil))
	require.Equal(t, "abc", FormatValue("abc"))
	require.Equal(t, "42", FormatValue(float64(42)))
	require.Equal(t, "812.4", FormatValue(812.4))
	require.Equal(t, "9007199254740993", FormatValue(json.Number("9007199254740993")))
	require.Equal(t, "0.1", FormatValue(json.Number("0.1")))
	require.Equal(t, "true", FormatValue(true))
	require.Equal(t, "7", FormatValue(int64(7)))
	require.Equal(t, "2026-01-02T03:04:05Z", FormatValue(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
}
