package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dbconsole/config"
	"dbconsole/core"
	"dbconsole/database"
	"dbconsole/models"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, backend http.HandlerFunc) *httptest.Server {
	t.Helper()
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "settings.db")))
	t.Cleanup(func() { database.Close() })

	upstream := httptest.NewServer(backend)
	t.Cleanup(upstream.Close)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("backend:\n  base_url: "+upstream.URL+"\n"), 0o644))
	cfg, _, err := config.Load(cfgPath)
	require.NoError(t, err)

	srv := httptest.NewServer(NewServerHandler(core.NewGridService(cfg, core.NewBackendClient(cfg)), ""))
	t.Cleanup(srv.Close)
	return srv
}

func nodeStatusBackend(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("current") == "9" {
		fmt.Fprint(w, `{"success":false,"msg":"instance offline"}`)
		return
	}
	fmt.Fprint(w, `{"success":true,"data":{"header":["node","status"],"rows":[["db-1","normal"]],"total":1}}`)
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestHealthAndRequestID(t *testing.T) {
	srv := newTestServer(t, nodeStatusBackend)
	var body map[string]bool
	resp := getJSON(t, srv.URL+"/api/health", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, body["ok"])
}

func TestGridEndpoint(t *testing.T) {
	srv := newTestServer(t, nodeStatusBackend)

	var page models.GridResponse
	resp := getJSON(t, srv.URL+"/api/grids/node_status?current=1&pagesize=20", &page)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "node_status", page.Table)
	require.Equal(t, 1, page.TotalCount)
	require.Equal(t, 20, page.PageSize)
	require.Equal(t, "Node", page.Columns[0].Label)
	require.Equal(t, "0", page.Records[0][models.RowKeyField])
	require.Empty(t, page.Notice)
}

func TestGridEndpointKeepsNumericCells(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":{"header":["node","lag_ms","wal_lsn"],"rows":[["db-1",0.1,9007199254740993]],"total":1}}`)
	})

	resp, err := http.Get(srv.URL + "/api/grids/node_status")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), `"lag_ms":0.1`)
	require.Contains(t, string(raw), `"wal_lsn":9007199254740993`)
}

func TestGridEndpointFailureIsNotice(t *testing.T) {
	srv := newTestServer(t, nodeStatusBackend)

	var page models.GridResponse
	resp := getJSON(t, srv.URL+"/api/grids/node_status?current=9", &page)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "instance offline", page.Notice)
	require.NotNil(t, page.Columns)
	require.Empty(t, page.Columns)
	require.Empty(t, page.Records)
}

func TestGridEndpointErrors(t *testing.T) {
	srv := newTestServer(t, nodeStatusBackend)

	var errResp models.ErrorResponse
	resp := getJSON(t, srv.URL+"/api/grids/nope", &errResp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Contains(t, errResp.Message, "unknown table")

	resp = getJSON(t, srv.URL+"/api/grids/node_status?current=zero", &errResp)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTablesEndpoint(t *testing.T) {
	srv := newTestServer(t, nodeStatusBackend)
	var tables []models.TableSpec
	getJSON(t, srv.URL+"/api/tables", &tables)
	require.Len(t, tables, 5)
	require.Equal(t, "index_advice", tables[0].Name)
}

func TestSwaggerDoc(t *testing.T) {
	srv := newTestServer(t, nodeStatusBackend)
	var doc map[string]any
	resp := getJSON(t, srv.URL+"/api/swagger.json", &doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/api", doc["basePath"])
	require.Contains(t, doc["paths"], "/grids/{table}")
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t, nodeStatusBackend)
	resp, err := http.Post(srv.URL+"/api/does-not-exist", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
