package driving

import (
	"context"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

// ScopeController owns the project, knowledge base and document selection
// and the lists that back each level.
//
// Set* methods apply the cascade synchronously and start dependent
// refreshes in the background. Results of superseded requests are
// dropped. Wait blocks until all background work has settled.
type ScopeController interface {
	// SetProject selects a project ("" clears it), resetting the levels below.
	SetProject(ctx context.Context, projectID string)

	// SetKnowledgeBase selects a knowledge base ("" clears it), resetting the document.
	SetKnowledgeBase(ctx context.Context, kbID string)

	// SetDocument selects a document ("" clears it) and resolves its profile.
	SetDocument(ctx context.Context, docID string)

	// RefreshProjects replaces the project list.
	RefreshProjects(ctx context.Context) error

	// RefreshKnowledgeBases replaces the knowledge base list for projectID.
	RefreshKnowledgeBases(ctx context.Context, projectID string) error

	// RefreshDocuments replaces the document list for kbID.
	RefreshDocuments(ctx context.Context, kbID string) error

	// Selection returns the current selection.
	Selection() domain.ScopeSelection

	// Projects returns a copy of the project list.
	Projects() []domain.Project

	// KnowledgeBases returns a copy of the knowledge base list.
	KnowledgeBases() []domain.KnowledgeBase

	// Documents returns a copy of the document list.
	Documents() []domain.Document

	// Profile returns the profile of the selected document, or nil.
	Profile() *domain.DocumentProfile

	// OnChange registers fn to receive every applied mutation.
	OnChange(fn func(domain.ScopeEvent))

	// Wait blocks until all background refreshes have settled.
	Wait()
}

// ProfileResolver fetches document profiles on a best-effort basis.
type ProfileResolver interface {
	// Fetch returns the profile of docID, or nil on any failure.
	Fetch(ctx context.Context, docID string) *domain.DocumentProfile

	// Invalidate drops any cached profile for docID.
	Invalidate(docID string)
}
