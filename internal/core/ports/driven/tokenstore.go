package driven

import (
	"context"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

// TokenStore persists small string values for the credential store.
// The only key in use is domain.TokenKey.
type TokenStore interface {
	// Load returns the stored value, or "" if none is stored.
	Load(ctx context.Context, key string) (string, error)

	// Save stores value under key, replacing any previous value.
	Save(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// TokenWatcher reports out-of-process changes to a TokenStore,
// for example a login performed in another shell.
type TokenWatcher interface {
	// Watch calls onChange whenever the persisted token may have changed.
	// It returns when ctx is cancelled.
	Watch(ctx context.Context, onChange func()) error
}

// ClaimsDecoder reads display claims from a bearer token without
// verifying its signature.
type ClaimsDecoder interface {
	// Decode returns domain.ErrOpaqueToken if the token is not a JWT.
	Decode(token string) (*domain.TokenClaims, error)
}
