package models

// TableSpec describes one backend table endpoint from the catalog.
type TableSpec struct {
	Name          string `json:"name" mapstructure:"-" example:"slow_queries"`
	Title         string `json:"title" mapstructure:"title" example:"Slow Queries"`
	Endpoint      string `json:"endpoint" mapstructure:"endpoint" example:"/api/v1/slowquery/list"`
	CountEndpoint string `json:"count_endpoint,omitempty" mapstructure:"count_endpoint" example:"/api/v1/slowquery/count"`
	Method        string `json:"method" mapstructure:"method" example:"GET" enum:"GET,POST"`
	KeyField      string `json:"key_field,omitempty" mapstructure:"key_field" example:"sql_id"`
}
