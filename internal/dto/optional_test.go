package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantSet bool
		want    *string
	}{
		{"absent", `{}`, false, nil},
		{"null", `{"parent_id": null}`, true, nil},
		{"empty", `{"parent_id": ""}`, true, strPtr("")},
		{"value", `{"parent_id": "abc"}`, true, strPtr("abc")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateCategoryRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.wantSet, req.ParentID.Set)
			assert.Equal(t, tt.want, req.ParentID.Value)
		})
	}

	var req UpdateCategoryRequest
	assert.Error(t, json.Unmarshal([]byte(`{"parent_id": 12}`), &req))
}

func TestOptionalMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Optional[int] `json:"a"`
		B Optional[int] `json:"b"`
	}{A: Some(3), B: Null[int]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":null}`, string(out))
}

func strPtr(s string) *string { return &s }
