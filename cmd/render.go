package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"dbconsole/core"
	"dbconsole/grid"
	"dbconsole/models"

	"gopkg.in/yaml.v3"
)

const maxCellRunes = 60

func truncateCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= maxCellRunes {
		return s
	}
	r := []rune(s)
	return string(r[:maxCellRunes-3]) + "..."
}

// renderGrid prints one result as a text table, JSON or YAML.
func renderGrid(w io.Writer, format string, spec models.TableSpec, state grid.PageState, r grid.Result) error {
	resp := core.ToResponse(spec.Name, r)
	switch strings.ToLower(format) {
	case "", "table":
		return renderTable(w, spec, state, resp)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "yaml", "yml":
		return renderYAML(w, resp)
	default:
		return fmt.Errorf("unknown output format '%s' (want table, json or yaml)", format)
	}
}

func renderTable(w io.Writer, spec models.TableSpec, state grid.PageState, resp models.GridResponse) error {
	writer := new(tabwriter.Writer)
	writer.Init(w, 0, 8, 2, ' ', 0)

	visible := make([]models.Column, 0, len(resp.Columns))
	for _, col := range resp.Columns {
		if !col.Hidden {
			visible = append(visible, col)
		}
	}

	labels := make([]string, len(visible))
	rules := make([]string, len(visible))
	for i, col := range visible {
		labels[i] = strings.ToUpper(col.Label)
		rules[i] = strings.Repeat("-", utf8.RuneCountInString(col.Label))
	}
	fmt.Fprintln(writer, strings.Join(labels, "\t"))
	fmt.Fprintln(writer, strings.Join(rules, "\t"))

	for _, rec := range resp.Records {
		cells := make([]string, len(visible))
		for i, col := range visible {
			cells[i] = truncateCell(grid.FormatValue(rec[col.Key]))
		}
		fmt.Fprintln(writer, strings.Join(cells, "\t"))
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	pages := state.TotalPages()
	if pages == 0 {
		pages = 1
	}
	title := spec.Title
	if title == "" {
		title = spec.Name
	}
	_, err := fmt.Fprintf(w, "\n%s: page %d/%d, %d rows total, %d per page\n", title, resp.Page, pages, resp.TotalCount, resp.PageSize)
	return err
}

// renderYAML goes through JSON so the output keeps the JSON field names and
// column order, then drops the flow style the JSON parse leaves behind.
func renderYAML(w io.Writer, resp models.GridResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	clearStyle(&node)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

// parseFilters turns repeated k=v flags into a filter map.
func parseFilters(raw []string) (map[string]string, error) {
	filters := make(map[string]string, len(raw))
	for _, f := range raw {
		k, v, ok := strings.Cut(f, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid filter '%s', expected key=value", f)
		}
		if k == grid.ParamCurrent || k == grid.ParamPageSize {
			return nil, fmt.Errorf("filter '%s' is reserved, use --page/--pagesize", k)
		}
		filters[k] = strings.TrimSpace(v)
	}
	return filters, nil
}
