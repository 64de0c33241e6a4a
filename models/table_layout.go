package models

// ColumnConfig defines the structure for a single column's configuration within a table layout.
type ColumnConfig struct {
	Width  int  `json:"width,omitempty"`
	Hidden bool `json:"hidden,omitempty"`
}

// TableLayoutConfig defines the structure for a single table's layout configuration.
type TableLayoutConfig struct {
	Columns  map[string]ColumnConfig `json:"columns"`            // Maps column key to its config (width, visibility)
	PageSize int                     `json:"pageSize,omitempty"` // Initial page size for the grid, 0 means default
}

// AllTableLayouts represents the structure for all table layouts.
// It's a map where the key is the table identifier from the catalog (e.g., "slow_queries").
type AllTableLayouts map[string]TableLayoutConfig
