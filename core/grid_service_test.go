package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"dbconsole/config"
	"dbconsole/database"
	"dbconsole/grid"
	"dbconsole/models"

	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	lastQuery atomic.Value
	fail      atomic.Bool
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/tables/slow_queries", func(w http.ResponseWriter, r *http.Request) {
		b.lastQuery.Store(r.URL.Query())
		if b.fail.Load() {
			json.NewEncoder(w).Encode(map[string]any{"success": false, "msg": "instance not reachable"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"header": []string{"sql_id", "db_name", "avg_latency_ms"},
				"rows":   [][]any{{"a1", "shop", 12.5}, {"b2", "shop", 8}},
			},
		})
	})
	mux.HandleFunc("/api/v1/tables/slow_queries/count", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":42}`)
	})
	return mux
}

func newTestService(t *testing.T) (*GridService, *fakeBackend) {
	t.Helper()
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "settings.db")))
	t.Cleanup(func() { database.Close() })

	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("backend:\n  base_url: "+srv.URL+"\n"), 0o644))
	cfg, _, err := config.Load(cfgPath)
	require.NoError(t, err)
	return NewGridService(cfg, NewBackendClient(cfg)), backend
}

func TestPageJoinsDataAndCount(t *testing.T) {
	svc, backend := newTestService(t)

	resp, err := svc.Page(context.Background(), "slow_queries", grid.Params{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Empty(t, resp.Notice)
	require.Equal(t, 42, resp.TotalCount)
	require.Equal(t, 2, resp.Page)
	require.Len(t, resp.Columns, 3)
	require.Equal(t, "Avg Latency Ms", resp.Columns[2].Label)
	require.Equal(t, "a1", resp.Records[0][models.RowKeyField])

	q := backend.lastQuery.Load().(url.Values)
	require.Equal(t, []string{"2"}, q["current"])
	require.Equal(t, []string{"2"}, q["pagesize"])
}

func TestPageAddsSelectedInstanceAndLayout(t *testing.T) {
	svc, backend := newTestService(t)
	require.NoError(t, database.SetSelectedInstance("mysql-prod-01"))
	require.NoError(t, database.SetColumnLayout("slow_queries", "db_name", models.ColumnConfig{Hidden: true, Width: 80}))
	require.NoError(t, database.SetTablePageSize("slow_queries", 25))

	resp, err := svc.Page(context.Background(), "slow_queries", grid.Params{Page: 1})
	require.NoError(t, err)
	require.Equal(t, 25, resp.PageSize)
	require.True(t, resp.Columns[1].Hidden)
	require.Equal(t, 80, resp.Columns[1].Width)

	q := backend.lastQuery.Load().(url.Values)
	require.Equal(t, []string{"mysql-prod-01"}, q["instance"])
}

func TestPageFailureIsNoticeNotError(t *testing.T) {
	svc, backend := newTestService(t)
	backend.fail.Store(true)

	resp, err := svc.Page(context.Background(), "slow_queries", grid.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, "instance not reachable", resp.Notice)
	require.Empty(t, resp.Columns)
	require.Empty(t, resp.Records)
}

func TestPageSequenceIncreasesAcrossRequests(t *testing.T) {
	svc, _ := newTestService(t)
	first, err := svc.Page(context.Background(), "slow_queries", grid.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	second, err := svc.Page(context.Background(), "slow_queries", grid.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Greater(t, second.Seq, first.Seq)
}

func TestUnknownTable(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Page(context.Background(), "nope", grid.Params{})
	require.ErrorIs(t, err, ErrUnknownTable)
	_, _, err = svc.NewView("nope", nil)
	require.ErrorIs(t, err, ErrUnknownTable)
}

func TestNewViewSeedsFromSession(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, database.SetSelectedInstance("pg-01"))
	require.NoError(t, database.SetTablePageSize("slow_queries", 5))

	notices := &grid.Notices{}
	v, spec, err := svc.NewView("slow_queries", notices)
	require.NoError(t, err)
	require.Equal(t, "Slow Queries", spec.Title)
	require.Equal(t, 5, v.State.PageSize)
	require.Equal(t, "pg-01", v.Filters[models.InstanceFilterParam])

	r := v.Load(context.Background())
	require.False(t, r.Failed())
	require.Equal(t, 42, v.State.TotalCount)
	require.Empty(t, notices.All())
}

func TestTablesSorted(t *testing.T) {
	svc, _ := newTestService(t)
	tables := svc.Tables()
	require.Len(t, tables, 5)
	require.Equal(t, "index_advice", tables[0].Name)
}

func TestUnauthorizedClearsToken(t *testing.T) {
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "settings.db")))
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.SetAuthToken("stale"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "stale", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("backend:\n  base_url: "+srv.URL+"\n"), 0o644))
	cfg, _, err := config.Load(cfgPath)
	require.NoError(t, err)
	svc := NewGridService(cfg, NewBackendClient(cfg))

	resp, err := svc.Page(context.Background(), "node_status", grid.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Notice)

	token, err := database.GetAuthToken()
	require.NoError(t, err)
	require.Empty(t, token)
}
