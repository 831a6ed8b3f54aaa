package dto

import "encoding/json"

// ImportSchemaRequest carries an OpenAPI document either as a JSON object or
// as a YAML string.
type ImportSchemaRequest struct {
	Spec       json.RawMessage `json:"spec"`
	Resolution string          `json:"resolution,omitempty"`
}

type ImportSchemaResponse struct {
	Created []ContentResponse `json:"created"`
	Updated []ContentResponse `json:"updated"`
	Skipped []string          `json:"skipped"`
}
