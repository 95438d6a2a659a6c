package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
)

// Ensure ProfileCache implements the interface.
var _ driven.ProfileCache = (*ProfileCache)(nil)

// DefaultProfileTTL is how long a fetched profile is reused.
const DefaultProfileTTL = 5 * time.Minute

// ProfileCache is an expiring driven.ProfileCache backed by go-cache.
type ProfileCache struct {
	c *cache.Cache
}

// NewProfileCache creates a cache whose entries expire after ttl.
// A zero ttl uses DefaultProfileTTL.
func NewProfileCache(ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &ProfileCache{
		c: cache.New(ttl, 2*ttl),
	}
}

// Get returns the cached profile and whether it was present.
func (p *ProfileCache) Get(docID string) (*domain.DocumentProfile, bool) {
	v, ok := p.c.Get(docID)
	if !ok {
		return nil, false
	}
	profile, ok := v.(*domain.DocumentProfile)
	return profile, ok
}

// Set caches a profile using the default expiry.
func (p *ProfileCache) Set(docID string, profile *domain.DocumentProfile) {
	p.c.Set(docID, profile, cache.DefaultExpiration)
}

// Delete evicts a profile.
func (p *ProfileCache) Delete(docID string) {
	p.c.Delete(docID)
}
