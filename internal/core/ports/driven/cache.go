package driven

import (
	"context"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

// ProfileCache holds recently fetched document profiles.
type ProfileCache interface {
	// Get returns the cached profile and whether it was present.
	Get(docID string) (*domain.DocumentProfile, bool)

	// Set caches a profile using the cache's default expiry.
	Set(docID string, profile *domain.DocumentProfile)

	// Delete evicts a profile.
	Delete(docID string)
}

// RunLog records answered agent queries locally.
type RunLog interface {
	// Append records one run.
	Append(ctx context.Context, rec domain.RunRecord) error

	// List returns the most recent runs, newest first.
	// A limit of zero or less returns all records.
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)
}
