package models

import "encoding/json"

// Envelope is the uniform response wrapper returned by every backend endpoint.
// Msg is populated on failure and is the exact string shown to the user.
type Envelope struct {
	Success bool            `json:"success" example:"true"`
	Data    json.RawMessage `json:"data,omitempty" swaggertype:"object"`
	Msg     string          `json:"msg,omitempty" example:"instance not reachable"`
}

// ErrorResponse is a generic error response structure for API
type ErrorResponse struct {
	Message string `json:"message" example:"Error message describing the issue"`
}

// MessageResponse acknowledges a successful write.
type MessageResponse struct {
	Message string `json:"message" example:"Settings saved successfully."`
}
