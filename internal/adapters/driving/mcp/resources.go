package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for docfoundry resources.
	uriScheme = "docfoundry://"

	// historyLimit bounds the runs resource.
	historyLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "scope",
		Name:        "scope",
		Description: "Current project, knowledge base and document selection",
		MIMEType:    "application/json",
	}, s.handleScopeResource)

	if s.ports.Runs != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "runs",
			Name:        "runs",
			Description: "Recently answered questions, newest first",
			MIMEType:    "application/json",
		}, s.handleRunsResource)
	}

	if s.ports.Profiles != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "documents/{documentId}/profile",
			Name:        "document-profile",
			Description: "Generated profile of a specific document",
			MIMEType:    "application/json",
		}, s.handleProfileResource)
	}
}

// handleScopeResource returns the current selection and profile.
func (s *Server) handleScopeResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type scopeInfo struct {
		ProjectID  string `json:"project_id"`
		KBID       string `json:"kb_id"`
		DocumentID string `json:"document_id"`
		Summary    string `json:"summary"`
		Profile    any    `json:"profile,omitempty"`
	}

	sel := s.ports.Scope.Selection()
	info := scopeInfo{
		ProjectID:  sel.ProjectID,
		KBID:       sel.KBID,
		DocumentID: sel.DocID,
		Summary:    sel.String(),
	}
	if p := s.ports.Scope.Profile(); p != nil {
		info.Profile = p
	}

	return jsonResult(req.Params.URI, info)
}

// handleRunsResource returns the local run history.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.ports.Runs.History(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("reading run history: %w", err)
	}

	type runInfo struct {
		RunID     string `json:"run_id"`
		Message   string `json:"message"`
		Scope     string `json:"scope"`
		Citations int    `json:"citations"`
		CreatedAt int64  `json:"created_at"`
	}

	infos := make([]runInfo, len(records))
	for i, r := range records {
		infos[i] = runInfo{
			RunID:     r.RunID,
			Message:   r.Message,
			Scope:     r.Scope.String(),
			Citations: r.Citations,
			CreatedAt: r.CreatedAt,
		}
	}

	return jsonResult(req.Params.URI, infos)
}

// handleProfileResource returns the profile of one document.
func (s *Server) handleProfileResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractProfileDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	p := s.ports.Profiles.Fetch(ctx, docID)
	if p == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return jsonResult(req.Params.URI, p)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractProfileDocumentID extracts the document ID from a URI like
// docfoundry://documents/{documentId}/profile.
func extractProfileDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"
	const suffix = "/profile"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
