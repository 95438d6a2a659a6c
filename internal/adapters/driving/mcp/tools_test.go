package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

func newTestServer(t *testing.T, conv *mockConversation, scope *mockScope) *Server {
	t.Helper()
	conv.scope = scope
	server, err := NewServer(&Ports{
		Conversation: conv,
		Scope:        scope,
		Profiles: &mockProfiles{profiles: map[string]*domain.DocumentProfile{
			"d1": {Title: "Annual report", DocType: "report"},
		}},
	})
	require.NoError(t, err)
	return server
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()
	score := 0.91

	t.Run("returns answer with citations", func(t *testing.T) {
		conv := &mockConversation{
			opts: domain.ChatOptions{TopK: 5},
			reply: domain.Turn{
				Role:    domain.RoleAssistant,
				Content: "Revenue grew.",
				RunID:   "run-1",
				Citations: []domain.Citation{{
					ChunkID:  "c1",
					Score:    &score,
					Metadata: map[string]any{"document_id": "d1"},
				}},
				Steps: []domain.AgentStep{{Index: 0, Kind: "retrieve"}},
			},
		}
		scope := &mockScope{}
		server := newTestServer(t, conv, scope)

		_, output, err := server.handleAsk(ctx, nil, AskInput{
			Message: "what grew?",
			KBID:    "kb1",
			TopK:    8,
			Trace:   true,
		})

		require.NoError(t, err)
		assert.Equal(t, "Revenue grew.", output.Answer)
		assert.Equal(t, "run-1", output.RunID)
		require.Len(t, output.Citations, 1)
		assert.Equal(t, "d1", output.Citations[0].DocumentID)
		assert.Equal(t, &score, output.Citations[0].Score)
		require.Len(t, output.Steps, 1)
		assert.Equal(t, "retrieve", output.Steps[0].Kind)

		assert.Equal(t, []string{"what grew?"}, conv.sent)
		assert.Equal(t, []domain.ScopeSelection{{KBID: "kb1"}}, conv.sentScope)
		assert.Equal(t, 8, conv.opts.TopK)
		assert.True(t, conv.opts.ShowTrace)
	})

	t.Run("keeps top_k when not given", func(t *testing.T) {
		conv := &mockConversation{opts: domain.ChatOptions{TopK: 12}}
		server := newTestServer(t, conv, &mockScope{})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Message: "hi"})

		require.NoError(t, err)
		assert.Equal(t, 12, conv.opts.TopK)
	})

	t.Run("empty message is invalid", func(t *testing.T) {
		conv := &mockConversation{}
		server := newTestServer(t, conv, &mockScope{})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Message: "  "})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, conv.sent)
	})

	t.Run("busy conversation is reported", func(t *testing.T) {
		conv := &mockConversation{busy: true}
		server := newTestServer(t, conv, &mockScope{})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Message: "hi"})

		assert.ErrorIs(t, err, domain.ErrBusy)
	})

	t.Run("request failure becomes tool error", func(t *testing.T) {
		conv := &mockConversation{
			lastError: "500 Internal Server Error: boom",
			reply: domain.Turn{
				Role:    domain.RoleAssistant,
				Content: domain.RequestFailedPrefix + "500 Internal Server Error: boom",
			},
		}
		server := newTestServer(t, conv, &mockScope{})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Message: "hi"})

		require.Error(t, err)
		assert.Equal(t, "500 Internal Server Error: boom", err.Error())
	})

	t.Run("not logged in", func(t *testing.T) {
		conv := &mockConversation{
			reply: domain.Turn{Role: domain.RoleAssistant, Content: domain.NotLoggedInText},
		}
		server := newTestServer(t, conv, &mockScope{})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Message: "hi"})

		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})
}

func TestServer_handleListTools(t *testing.T) {
	ctx := context.Background()

	scope := &mockScope{
		projects: []domain.Project{{ID: "p1", Name: "Alpha"}},
		kbs:      []domain.KnowledgeBase{{ID: "kb1", Name: "Reports"}, {ID: "kb2", Name: "Notes"}},
		docs:     []domain.Document{{ID: "d1"}},
	}
	server := newTestServer(t, &mockConversation{}, scope)

	t.Run("projects", func(t *testing.T) {
		_, output, err := server.handleListProjects(ctx, nil, struct{}{})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, ScopeItem{ID: "p1", Name: "Alpha"}, output.Items[0])
	})

	t.Run("knowledge bases", func(t *testing.T) {
		_, output, err := server.handleListKnowledgeBases(ctx, nil, ListKnowledgeBasesInput{ProjectID: "p1"})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "p1", scope.refreshedProject)
		assert.Equal(t, "p1", scope.sel.ProjectID)
	})

	t.Run("documents", func(t *testing.T) {
		_, output, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{KBID: "kb1"})

		require.NoError(t, err)
		assert.Equal(t, []ScopeItem{{ID: "d1", Name: "Untitled"}}, output.Items)
		assert.Equal(t, "kb1", scope.refreshedKB)
		assert.Equal(t, domain.ScopeSelection{ProjectID: "p1", KBID: "kb1"}, scope.sel)
	})

	t.Run("documents require kb", func(t *testing.T) {
		_, _, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleListTools_Error(t *testing.T) {
	ctx := context.Background()
	scope := &mockScope{err: errors.New("401 Unauthorized: bad token")}
	server := newTestServer(t, &mockConversation{}, scope)

	_, _, err := server.handleListProjects(ctx, nil, struct{}{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing projects")
	assert.Contains(t, err.Error(), "401 Unauthorized")
}

func TestServer_handleDocumentProfile(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &mockConversation{}, &mockScope{})

	t.Run("found", func(t *testing.T) {
		_, output, err := server.handleDocumentProfile(ctx, nil, DocumentProfileInput{DocumentID: "d1"})

		require.NoError(t, err)
		assert.True(t, output.Found)
		assert.Equal(t, "Annual report", output.Profile.Title)
	})

	t.Run("missing profile is not an error", func(t *testing.T) {
		_, output, err := server.handleDocumentProfile(ctx, nil, DocumentProfileInput{DocumentID: "d9"})

		require.NoError(t, err)
		assert.False(t, output.Found)
		assert.Nil(t, output.Profile)
	})

	t.Run("document id required", func(t *testing.T) {
		_, _, err := server.handleDocumentProfile(ctx, nil, DocumentProfileInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
