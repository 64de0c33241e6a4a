package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"dbconsole/grid"
	"dbconsole/models"
)

// PageSizes are the sizes cycled with + and -.
var PageSizes = []int{10, 20, 50, 100}

const (
	pixelsPerChar = 8
	minCellWidth  = 6
)

type pageLoadedMsg struct {
	result grid.Result
}

// Model is the interactive grid browser for one table.
type Model struct {
	ctx   context.Context
	view  *grid.View
	title string
	table table.Model

	notice  string
	loading bool
	dropped int
	height  int
}

func New(ctx context.Context, view *grid.View, title string) Model {
	t := table.New(table.WithFocused(true), table.WithHeight(15))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = styles.Selected.Bold(true)
	t.SetStyles(styles)
	return Model{ctx: ctx, view: view, title: title, table: t, loading: true}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

// load orders the request now so that a slower earlier page can not
// overwrite a later one.
func (m *Model) load() tea.Cmd {
	run := m.view.Prepare(m.view.Params())
	m.loading = true
	ctx := m.ctx
	return func() tea.Msg {
		return pageLoadedMsg{result: run(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		if h := msg.Height - 6; h > 3 {
			m.table.SetHeight(h)
		}
		m.table.SetWidth(msg.Width)
		return m, nil

	case pageLoadedMsg:
		if !m.view.Apply(msg.result) {
			m.dropped++
			return m, nil
		}
		m.loading = m.view.Loading()
		m.notice = msg.result.Notice
		m.setGrid(msg.result.GridViewModel)
		return m, nil

	case tea.KeyMsg:
		state := &m.view.State
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n", "right":
			// no total after a failure or on an empty table
			if pages := state.TotalPages(); pages == 0 || state.CurrentPage >= pages {
				return m, nil
			}
			state.SetPage(state.CurrentPage + 1)
			return m, m.load()
		case "p", "left":
			if state.CurrentPage <= 1 {
				return m, nil
			}
			state.SetPage(state.CurrentPage - 1)
			return m, m.load()
		case "+":
			state.SetPageSize(nextPageSize(state.PageSize, 1))
			return m, m.load()
		case "-":
			state.SetPageSize(nextPageSize(state.PageSize, -1))
			return m, m.load()
		case "r":
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// nextPageSize steps through PageSizes from the current size.
func nextPageSize(current, step int) int {
	idx := -1
	for i, size := range PageSizes {
		if size == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		// a stored size outside the list snaps to the nearest step
		for i, size := range PageSizes {
			if size > current {
				if step > 0 {
					return size
				}
				if i == 0 {
					return PageSizes[0]
				}
				return PageSizes[i-1]
			}
		}
		return PageSizes[len(PageSizes)-1]
	}
	idx += step
	if idx < 0 {
		idx = 0
	}
	if idx >= len(PageSizes) {
		idx = len(PageSizes) - 1
	}
	return PageSizes[idx]
}

func cellWidth(px int) int {
	w := px / pixelsPerChar
	if w < minCellWidth {
		w = minCellWidth
	}
	return w
}

func (m *Model) setGrid(vm models.GridViewModel) {
	visible := make([]models.Column, 0, len(vm.Columns))
	for _, col := range vm.Columns {
		if !col.Hidden {
			visible = append(visible, col)
		}
	}

	columns := make([]table.Column, len(visible))
	for i, col := range visible {
		columns[i] = table.Column{Title: col.Label, Width: cellWidth(col.Width)}
	}
	rows := make([]table.Row, len(vm.Records))
	for i, rec := range vm.Records {
		row := make(table.Row, len(visible))
		for j, col := range visible {
			row[j] = grid.FormatValue(rec[col.Key])
		}
		rows[i] = row
	}

	// rows first: the table renders rows against the current columns
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m Model) View() string {
	state := m.view.State
	var b strings.Builder

	pages := "?"
	if n := state.TotalPages(); n > 0 {
		pages = fmt.Sprintf("%d", n)
	}
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("page %d/%s, %d rows, %d per page", state.CurrentPage, pages, state.TotalCount, state.PageSize)))
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(m.table.View()))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(LoadStyle.Render("loading..."))
	case m.notice != "":
		b.WriteString(WarnStyle.Render(m.notice))
	case len(m.table.Rows()) == 0:
		b.WriteString(InfoStyle.Render("no data"))
	}
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("n/p page  +/- page size  r refresh  q quit"))
	b.WriteString("\n")
	return b.String()
}

// Run starts the browser on the terminal and blocks until the user quits.
func Run(ctx context.Context, view *grid.View, title string) error {
	p := tea.NewProgram(New(ctx, view, title), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
