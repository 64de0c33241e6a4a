package tui

import (
	"context"
	"encoding/json"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"dbconsole/grid"
	"dbconsole/models"
)

func pagedFetch(t *testing.T, total int) grid.FetchFunc {
	return func(ctx context.Context, params grid.Params) (*models.Envelope, error) {
		rows := make([][]any, 0, params.PageSize)
		for i := (params.Page - 1) * params.PageSize; i < total && len(rows) < params.PageSize; i++ {
			rows = append(rows, []any{float64(i), "node"})
		}
		data, err := json.Marshal(map[string]any{"header": []string{"id", "node_name"}, "rows": rows, "total": total})
		require.NoError(t, err)
		return &models.Envelope{Success: true, Data: data}, nil
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestBrowseLoadsAndPages(t *testing.T) {
	view := grid.NewView(grid.NewAdapter(), pagedFetch(t, 25), nil, 10)
	m := New(context.Background(), view, "Node Status")

	m, _ = step(t, m, m.Init()())
	require.False(t, m.loading)
	require.Len(t, m.table.Rows(), 10)
	require.Equal(t, "0", m.table.Rows()[0][0])
	require.Contains(t, m.View(), "page 1/3")

	m, cmd := step(t, m, key("n"))
	require.NotNil(t, cmd)
	m, _ = step(t, m, cmd())
	require.Equal(t, 2, view.State.CurrentPage)
	require.Equal(t, "10", m.table.Rows()[0][0])

	m, cmd = step(t, m, key("n"))
	m, _ = step(t, m, cmd())
	require.Len(t, m.table.Rows(), 5)

	// last page: no request
	_, cmd = step(t, m, key("n"))
	require.Nil(t, cmd)

	m, cmd = step(t, m, key("+"))
	m, _ = step(t, m, cmd())
	require.Equal(t, 1, view.State.CurrentPage)
	require.Equal(t, 20, view.State.PageSize)
	require.Len(t, m.table.Rows(), 20)
}

func TestBrowseDropsStaleResponse(t *testing.T) {
	view := grid.NewView(grid.NewAdapter(), pagedFetch(t, 100), nil, 10)
	m := New(context.Background(), view, "t")
	m, _ = step(t, m, m.Init()())

	m, toPage2 := step(t, m, key("n"))
	m, toPage3 := step(t, m, key("n"))

	m, _ = step(t, m, toPage3())
	m, _ = step(t, m, toPage2())
	require.Equal(t, 1, m.dropped)
	require.Equal(t, "20", m.table.Rows()[0][0])
	require.Equal(t, 3, view.Last().Page)
}

func TestBrowseShowsNotice(t *testing.T) {
	fail := func(ctx context.Context, params grid.Params) (*models.Envelope, error) {
		return &models.Envelope{Success: false, Msg: "instance not reachable"}, nil
	}
	view := grid.NewView(grid.NewAdapter(), fail, nil, 10)
	m := New(context.Background(), view, "t")
	m, _ = step(t, m, m.Init()())
	require.Equal(t, "instance not reachable", m.notice)
	require.Empty(t, m.table.Rows())
	require.Contains(t, m.View(), "instance not reachable")

	// nothing to page past after a failure
	m, cmd := step(t, m, key("n"))
	require.Nil(t, cmd)
	require.Equal(t, 1, view.State.CurrentPage)

	_, cmd = step(t, m, key("q"))
	require.NotNil(t, cmd)
}

func TestBrowseEmptyTableStaysOnFirstPage(t *testing.T) {
	view := grid.NewView(grid.NewAdapter(), pagedFetch(t, 0), nil, 10)
	m := New(context.Background(), view, "t")
	m, _ = step(t, m, m.Init()())
	require.Empty(t, m.table.Rows())

	_, cmd := step(t, m, key("n"))
	require.Nil(t, cmd)
	require.Equal(t, 1, view.State.CurrentPage)
}

func TestNextPageSize(t *testing.T) {
	require.Equal(t, 20, nextPageSize(10, 1))
	require.Equal(t, 10, nextPageSize(10, -1))
	require.Equal(t, 100, nextPageSize(100, 1))
	require.Equal(t, 50, nextPageSize(25, 1))
	require.Equal(t, 20, nextPageSize(25, -1))
	require.Equal(t, 100, nextPageSize(500, 1))
}
