package models

// RowKeyField is the synthetic key attached to every record.
const RowKeyField = "rowKey"

// TabularPayload is the `data` of a tabular backend response.
// Total is nil when the backend splits the count into its own endpoint.
type TabularPayload struct {
	Header []string `json:"header"`
	Rows   [][]any  `json:"rows"`
	Total  *int     `json:"total,omitempty"`
}

// Column is one grid column definition.
type Column struct {
	Key    string `json:"key" example:"query_time"`
	Label  string `json:"label" example:"Query Time"`
	Width  int    `json:"width" example:"150"`
	Hidden bool   `json:"hidden,omitempty"`
}

// Record is one grid row keyed by header entry, plus RowKeyField.
type Record map[string]any

// GridViewModel is the shape consumed directly by the rendering layer.
type GridViewModel struct {
	Columns []Column `json:"columns"`
	Records []Record `json:"records"`
}

// GridResponse is what the dashboard server returns for one grid page.
type GridResponse struct {
	Table      string   `json:"table" example:"slow_queries"`
	Columns    []Column `json:"columns"`
	Records    []Record `json:"records"`
	Page       int      `json:"page" example:"1"`
	PageSize   int      `json:"page_size" example:"10"`
	TotalCount int      `json:"total_count" example:"42"`
	Seq        uint64   `json:"seq" example:"7"`
	Notice     string   `json:"notice,omitempty" example:"instance not reachable"`
}
