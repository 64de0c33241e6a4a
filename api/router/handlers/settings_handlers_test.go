package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"dbconsole/database"
	"dbconsole/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newSettingsRouter(t *testing.T) http.Handler {
	t.Helper()
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "settings.db")))
	t.Cleanup(func() { database.Close() })
	r := chi.NewRouter()
	RegisterSettingsRoutes(r)
	return r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSessionSettingsFlow(t *testing.T) {
	h := newSettingsRouter(t)

	rec := serve(h, http.MethodPut, "/settings/session", `{"instance":" mysql-prod-01 ","token":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var session models.SessionSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.Equal(t, models.SessionSettings{Instance: "mysql-prod-01", HasToken: true}, session)
	require.NotContains(t, rec.Body.String(), "abc")

	rec = serve(h, http.MethodPut, "/settings/session", `{"instance":"pg-02"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.True(t, session.HasToken)
	require.Equal(t, "pg-02", session.Instance)

	rec = serve(h, http.MethodDelete, "/settings/session", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/settings/session", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.False(t, session.HasToken)
	require.Equal(t, "pg-02", session.Instance)
}

func TestSessionSettingsRejectsBadJSON(t *testing.T) {
	h := newSettingsRouter(t)
	rec := serve(h, http.MethodPut, "/settings/session", `{`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTableLayoutsFlow(t *testing.T) {
	h := newSettingsRouter(t)

	rec := serve(h, http.MethodPut, "/settings/table-layouts",
		`{"slow_queries":{"columns":{"sample_sql":{"width":420},"db_name":{"hidden":true}},"pageSize":25}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/settings/table-layouts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var layouts models.AllTableLayouts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &layouts))
	require.Equal(t, 25, layouts["slow_queries"].PageSize)
	require.Equal(t, 420, layouts["slow_queries"].Columns["sample_sql"].Width)
	require.True(t, layouts["slow_queries"].Columns["db_name"].Hidden)

	rec = serve(h, http.MethodPut, "/settings/table-layouts", `{"x":{"pageSize":-1}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, http.MethodPost, "/settings/table-layouts/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = serve(h, http.MethodGet, "/settings/table-layouts", "")
	require.JSONEq(t, `{}`, rec.Body.String())
}
