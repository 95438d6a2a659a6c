package driving

import (
	"context"
	"io"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

// CatalogService creates projects, knowledge bases and documents.
// After a successful create the owning list is refreshed.
type CatalogService interface {
	// CreateProject creates a project.
	CreateProject(ctx context.Context, name string) (*domain.Project, error)

	// CreateKnowledgeBase creates a knowledge base in projectID.
	CreateKnowledgeBase(ctx context.Context, projectID, name, description string) (*domain.KnowledgeBase, error)

	// CreateDocument creates an empty document in kbID.
	CreateDocument(ctx context.Context, kbID, title string) (*domain.Document, error)

	// Upload sends file content for docID. The cached profile is invalidated.
	Upload(ctx context.Context, docID, filename string, content io.Reader) (any, error)

	// Health probes the backend.
	Health(ctx context.Context) (any, error)
}

// RunService inspects agent runs.
type RunService interface {
	// Get fetches a stored run with its steps.
	Get(ctx context.Context, runID string) (*domain.AgentRun, error)

	// Retry re-executes a run, optionally with a new message.
	Retry(ctx context.Context, runID, message string) (*domain.AgentAnswer, error)

	// History returns locally recorded runs, newest first.
	History(ctx context.Context, limit int) ([]domain.RunRecord, error)
}
