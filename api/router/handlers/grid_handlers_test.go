package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGridParams(t *testing.T) {
	req := httptest.NewRequest("GET", "/grids/slow_queries?current=3&pagesize=50&db_name=shop&empty=", nil)
	params, err := parseGridParams(req)
	require.NoError(t, err)
	require.Equal(t, 3, params.Page)
	require.Equal(t, 50, params.PageSize)
	require.Equal(t, map[string]string{"db_name": "shop"}, params.Filters)

	req = httptest.NewRequest("GET", "/grids/slow_queries", nil)
	params, err = parseGridParams(req)
	require.NoError(t, err)
	require.Zero(t, params.Page)
	require.Zero(t, params.PageSize)
	require.Nil(t, params.Filters)

	for _, q := range []string{"current=0", "current=x", "pagesize=-5"} {
		_, err = parseGridParams(httptest.NewRequest("GET", "/grids/t?"+q, nil))
		require.Error(t, err, q)
	}
}
