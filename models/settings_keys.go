package models

// AuthTokenKey is the app_settings key holding the backend session token.
const AuthTokenKey = "auth_token"

// SelectedInstanceKey is the app_settings key for the currently selected database instance.
const SelectedInstanceKey = "selected_instance"

// TableLayoutsKey is the app_settings key for storing per-table column layouts.
const TableLayoutsKey = "table_layouts"

// SessionSettings is what the UI sees of the session-scoped settings. The token itself
// never leaves the process.
type SessionSettings struct {
	Instance string `json:"instance" example:"mysql-prod-01"`
	HasToken bool   `json:"has_token" example:"true"`
}

// SessionUpdateRequest updates the session. Nil fields are left untouched.
type SessionUpdateRequest struct {
	Instance *string `json:"instance,omitempty" example:"mysql-prod-01"`
	Token    *string `json:"token,omitempty" example:"eyJhbGciOi..."`
}

// InstanceFilterParam carries the selected instance on every grid request.
const InstanceFilterParam = "instance"
