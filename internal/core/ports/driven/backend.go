package driven

import (
	"context"
	"io"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

// AuthBackend exchanges credentials for a bearer token.
// Both calls are unauthenticated.
type AuthBackend interface {
	// Login calls POST /auth/login.
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)

	// Register calls POST /auth/register.
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)
}

// CatalogBackend lists and creates the scope hierarchy.
// Every call carries the caller's bearer token; an empty token sends
// the request unauthenticated and lets the backend reject it.
type CatalogBackend interface {
	// ListProjects calls GET /projects/.
	ListProjects(ctx context.Context, token string) ([]domain.Project, error)

	// ListKnowledgeBases calls GET /kb/?project_id=.
	ListKnowledgeBases(ctx context.Context, token, projectID string) ([]domain.KnowledgeBase, error)

	// ListDocuments calls GET /documents/?kb_id=.
	ListDocuments(ctx context.Context, token, kbID string) ([]domain.Document, error)

	// GetDocumentProfile calls GET /documents/{id}/profile.
	GetDocumentProfile(ctx context.Context, token, docID string) (*domain.DocumentProfile, error)

	// CreateProject calls POST /projects/.
	CreateProject(ctx context.Context, token, name string) (*domain.Project, error)

	// CreateKnowledgeBase calls POST /kb/.
	CreateKnowledgeBase(ctx context.Context, token, projectID, name, description string) (*domain.KnowledgeBase, error)

	// CreateDocument calls POST /documents/.
	CreateDocument(ctx context.Context, token, kbID, title string) (*domain.Document, error)

	// UploadDocument calls POST /documents/{id}/upload with a multipart
	// "file" field. The response shape is backend-defined.
	UploadDocument(ctx context.Context, token, docID, filename string, content io.Reader) (any, error)
}

// AgentBackend talks to the retrieval agent.
type AgentBackend interface {
	// Query calls POST /agent/query.
	Query(ctx context.Context, token string, q domain.AgentQuery) (*domain.AgentAnswer, error)

	// GetRun calls GET /agent/runs/{id}.
	GetRun(ctx context.Context, token, runID string) (*domain.AgentRun, error)

	// RetryRun calls POST /agent/runs/{id}/retry.
	RetryRun(ctx context.Context, token, runID string, req domain.AgentRetry) (*domain.AgentAnswer, error)
}

// HealthChecker probes backend liveness.
type HealthChecker interface {
	// Health calls GET /health. The response shape is backend-defined.
	Health(ctx context.Context) (any, error)
}

// Backend is the full DocFoundry API surface.
type Backend interface {
	AuthBackend
	CatalogBackend
	AgentBackend
	HealthChecker
}
