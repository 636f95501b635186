package models

import "encoding/json"

// Envelope is the uniform wrapper every backend endpoint returns. A response
// with Success=false is a failure even under HTTP 200; empty Data with
// Success=true is a valid empty result, never an error.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}
