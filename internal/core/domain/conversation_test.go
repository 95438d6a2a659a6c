package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCitation_Document(t *testing.T) {
	tests := []struct {
		name     string
		citation Citation
		expected string
	}{
		{"top level", Citation{DocumentID: "d1", Metadata: map[string]any{"document_id": "d2"}}, "d1"},
		{"metadata fallback", Citation{Metadata: map[string]any{"document_id": "d2"}}, "d2"},
		{"non-string metadata", Citation{Metadata: map[string]any{"document_id": 7}}, ""},
		{"missing", Citation{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.citation.Document())
		})
	}
}

func TestNewAgentQuery_UnsetScopeIsNull(t *testing.T) {
	q := NewAgentQuery("hi", ScopeSelection{KBID: "k1"}, ChatOptions{TopK: 5})

	raw, err := json.Marshal(q)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "hi", got["message"])
	assert.Nil(t, got["project_id"])
	assert.Contains(t, got, "project_id")
	assert.Equal(t, "k1", got["kb_id"])
	assert.Nil(t, got["document_id"])
	assert.Contains(t, got, "document_id")
	assert.Equal(t, float64(5), got["top_k"])
	assert.Equal(t, false, got["return_steps"])
	assert.NotContains(t, got, "mode")
	assert.NotContains(t, got, "max_steps")
}

func TestNewAgentQuery_Options(t *testing.T) {
	q := NewAgentQuery("hi", ScopeSelection{}, ChatOptions{TopK: 9, ShowTrace: true, Mode: AgentModeExtract, MaxSteps: 3})

	assert.Equal(t, 9, q.TopK)
	assert.True(t, q.ReturnSteps)
	assert.Equal(t, AgentModeExtract, q.Mode)
	assert.Equal(t, 3, q.MaxSteps)
}
