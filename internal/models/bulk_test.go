package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBulkResponseDecodesMixedFailures(t *testing.T) {
	var resp BulkResponse
	err := json.Unmarshal([]byte(`{
		"message": "done",
		"results": {
			"success": ["u1", "u2"],
			"failed": ["u3", {"id": "u4", "error": "user not found"}]
		}
	}`), &resp)
	require.NoError(t, err)

	require.Equal(t, []string{"u1", "u2"}, resp.Results.Success)
	require.Equal(t, []BulkFailure{
		{ID: "u3"},
		{ID: "u4", Error: "user not found"},
	}, resp.Results.Failed)
}

func TestBulkFailureRejectsGarbage(t *testing.T) {
	var f BulkFailure
	require.Error(t, json.Unmarshal([]byte(`42`), &f))
}
