package services

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driving"
	"github.com/docfoundry/docfoundry-cli/internal/logger"
)

// Ensure ProfileResolver implements the interface.
var _ driving.ProfileResolver = (*ProfileResolver)(nil)

// ProfileResolver fetches document profiles on a best-effort basis.
// Concurrent fetches of one document share a single backend call.
type ProfileResolver struct {
	catalog driven.CatalogBackend
	tokens  TokenSource
	cache   driven.ProfileCache
	group   singleflight.Group
}

// NewProfileResolver creates a profile resolver. cache may be nil.
func NewProfileResolver(catalog driven.CatalogBackend, tokens TokenSource, cache driven.ProfileCache) *ProfileResolver {
	return &ProfileResolver{
		catalog: catalog,
		tokens:  tokens,
		cache:   cache,
	}
}

// Fetch returns the profile of docID. Any failure is logged and
// resolves to nil; failures are not cached.
func (r *ProfileResolver) Fetch(ctx context.Context, docID string) *domain.DocumentProfile {
	if docID == "" || r.catalog == nil {
		return nil
	}
	if r.cache != nil {
		if p, ok := r.cache.Get(docID); ok {
			logger.Debug("Profile cache hit: %s", docID)
			return p
		}
	}

	v, err, shared := r.group.Do(docID, func() (any, error) {
		token := ""
		if r.tokens != nil {
			token = r.tokens.Current()
		}
		p, err := r.catalog.GetDocumentProfile(ctx, token, docID)
		if err != nil {
			return nil, err
		}
		if p != nil && r.cache != nil {
			r.cache.Set(docID, p)
		}
		return p, nil
	})
	if err != nil {
		logger.Warn("Profile fetch for document %s failed: %v", docID, err)
		return nil
	}
	if shared {
		logger.Debug("Profile fetch for %s shared with a concurrent caller", docID)
	}
	p, _ := v.(*domain.DocumentProfile)
	return p
}

// Invalidate drops any cached profile for docID.
func (r *ProfileResolver) Invalidate(docID string) {
	if r.cache != nil {
		r.cache.Delete(docID)
	}
}
