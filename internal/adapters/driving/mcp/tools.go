package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Message    string `json:"message" jsonschema:"the question to answer from the documents"`
	ProjectID  string `json:"project_id,omitempty" jsonschema:"restrict retrieval to this project"`
	KBID       string `json:"kb_id,omitempty" jsonschema:"restrict retrieval to this knowledge base"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"restrict retrieval to this document"`
	TopK       int    `json:"top_k,omitempty" jsonschema:"chunks to retrieve, 1 to 50 (default from settings)"`
	Trace      bool   `json:"trace,omitempty" jsonschema:"include the agent trace"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string           `json:"answer"`
	RunID     string           `json:"run_id,omitempty"`
	Citations []CitationOutput `json:"citations"`
	Steps     []StepOutput     `json:"steps,omitempty"`
}

// CitationOutput is one source backing an answer.
type CitationOutput struct {
	DocumentID string   `json:"document_id,omitempty"`
	ChunkID    string   `json:"chunk_id,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	Preview    string   `json:"preview,omitempty"`
}

// StepOutput is one agent trace entry.
type StepOutput struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
}

// ListKnowledgeBasesInput is the input schema for list_knowledge_bases.
type ListKnowledgeBasesInput struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"only list knowledge bases of this project"`
}

// ListDocumentsInput is the input schema for list_documents.
type ListDocumentsInput struct {
	KBID string `json:"kb_id" jsonschema:"the knowledge base to list"`
}

// DocumentProfileInput is the input schema for document_profile.
type DocumentProfileInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document to describe"`
}

// ScopeItem is one project, knowledge base or document.
type ScopeItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListOutput is the output schema for the list tools.
type ListOutput struct {
	Items []ScopeItem `json:"items"`
	Count int         `json:"count"`
}

// ProfileOutput is the output schema for document_profile.
type ProfileOutput struct {
	Found   bool                    `json:"found"`
	Profile *domain.DocumentProfile `json:"profile,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question answered from the documents, optionally scoped to a project, knowledge base or document",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_projects",
		Description: "List all accessible projects",
	}, s.handleListProjects)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_knowledge_bases",
		Description: "List knowledge bases, optionally of one project",
	}, s.handleListKnowledgeBases)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents of a knowledge base",
	}, s.handleListDocuments)

	if s.ports.Profiles != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "document_profile",
			Description: "Describe a document: title, type, year range, summary and tags",
		}, s.handleDocumentProfile)
	}
}

// handleAsk applies the requested scope and sends the question.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, AskOutput{}, fmt.Errorf("%w: message is empty", domain.ErrInvalidInput)
	}

	s.askMu.Lock()
	defer s.askMu.Unlock()

	conv := s.ports.Conversation
	opts := conv.Options()
	if input.TopK != 0 {
		opts.TopK = input.TopK
	}
	opts.ShowTrace = input.Trace
	conv.SetOptions(opts)

	scope := s.ports.Scope
	scope.SetProject(ctx, input.ProjectID)
	scope.SetKnowledgeBase(ctx, input.KBID)
	scope.SetDocument(ctx, input.DocumentID)

	if !conv.Send(ctx, input.Message) {
		return nil, AskOutput{}, domain.ErrBusy
	}

	transcript := conv.Transcript()
	turn := transcript[len(transcript)-1]
	state := conv.State()

	switch {
	case state.LastError != "" && strings.HasPrefix(turn.Content, domain.RequestFailedPrefix):
		return nil, AskOutput{}, errors.New(state.LastError)
	case turn.Content == domain.NotLoggedInText:
		return nil, AskOutput{}, fmt.Errorf("%w: run 'docfoundry auth login'", domain.ErrNotAuthenticated)
	}

	output := AskOutput{
		Answer:    turn.Content,
		RunID:     turn.RunID,
		Citations: make([]CitationOutput, len(turn.Citations)),
	}
	for i, c := range turn.Citations {
		output.Citations[i] = CitationOutput{
			DocumentID: c.Document(),
			ChunkID:    c.ChunkID,
			Score:      c.Score,
			Preview:    c.TextPreview,
		}
	}
	for _, step := range turn.Steps {
		output.Steps = append(output.Steps, StepOutput{Index: step.Index, Kind: step.Kind})
	}

	return nil, output, nil
}

// handleListProjects refreshes and returns the project list.
func (s *Server) handleListProjects(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListOutput, error) {
	if err := s.ports.Scope.RefreshProjects(ctx); err != nil {
		return nil, ListOutput{}, fmt.Errorf("listing projects: %w", err)
	}

	projects := s.ports.Scope.Projects()
	items := make([]ScopeItem, len(projects))
	for i, p := range projects {
		items[i] = ScopeItem{ID: p.ID, Name: p.Name}
	}
	return nil, ListOutput{Items: items, Count: len(items)}, nil
}

// handleListKnowledgeBases refreshes and returns the knowledge base list.
func (s *Server) handleListKnowledgeBases(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListKnowledgeBasesInput,
) (*mcp.CallToolResult, ListOutput, error) {
	s.askMu.Lock()
	defer s.askMu.Unlock()
	defer s.ports.Scope.Wait()

	// Lists follow the selection, so listing another project selects it.
	if s.ports.Scope.Selection().ProjectID != input.ProjectID {
		s.ports.Scope.SetProject(ctx, input.ProjectID)
	}
	if err := s.ports.Scope.RefreshKnowledgeBases(ctx, input.ProjectID); err != nil {
		return nil, ListOutput{}, fmt.Errorf("listing knowledge bases: %w", err)
	}

	kbs := s.ports.Scope.KnowledgeBases()
	items := make([]ScopeItem, len(kbs))
	for i, kb := range kbs {
		items[i] = ScopeItem{ID: kb.ID, Name: kb.Name}
	}
	return nil, ListOutput{Items: items, Count: len(items)}, nil
}

// handleListDocuments refreshes and returns the document list.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListOutput, error) {
	if input.KBID == "" {
		return nil, ListOutput{}, fmt.Errorf("%w: kb_id is required", domain.ErrInvalidInput)
	}
	s.askMu.Lock()
	defer s.askMu.Unlock()
	defer s.ports.Scope.Wait()

	if s.ports.Scope.Selection().KBID != input.KBID {
		s.ports.Scope.SetKnowledgeBase(ctx, input.KBID)
	}
	if err := s.ports.Scope.RefreshDocuments(ctx, input.KBID); err != nil {
		return nil, ListOutput{}, fmt.Errorf("listing documents: %w", err)
	}

	docs := s.ports.Scope.Documents()
	items := make([]ScopeItem, len(docs))
	for i, d := range docs {
		items[i] = ScopeItem{ID: d.ID, Name: d.DisplayTitle()}
	}
	return nil, ListOutput{Items: items, Count: len(items)}, nil
}

// handleDocumentProfile resolves a document profile. A missing profile
// is not an error.
func (s *Server) handleDocumentProfile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentProfileInput,
) (*mcp.CallToolResult, ProfileOutput, error) {
	if input.DocumentID == "" {
		return nil, ProfileOutput{}, fmt.Errorf("%w: document_id is required", domain.ErrInvalidInput)
	}

	p := s.ports.Profiles.Fetch(ctx, input.DocumentID)
	return nil, ProfileOutput{Found: p != nil, Profile: p}, nil
}
