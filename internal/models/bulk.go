package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BulkFailure records why one id in a bulk request was not processed.
type BulkFailure struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

// UnmarshalJSON accepts either a bare id string or an {id, error} object.
func (f *BulkFailure) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		f.Error = ""
		return json.Unmarshal(data, &f.ID)
	}

	type plain BulkFailure
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("invalid bulk failure entry: %w", err)
	}
	*f = BulkFailure(p)
	return nil
}

// BulkResult partitions the ids of a bulk request into processed and failed.
type BulkResult struct {
	Success []string      `json:"success"`
	Failed  []BulkFailure `json:"failed"`
}

// BulkResponse is the envelope returned by bulk user endpoints.
type BulkResponse struct {
	Message string     `json:"message,omitempty"`
	Results BulkResult `json:"results"`
}
