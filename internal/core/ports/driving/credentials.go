package driving

import (
	"context"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

// CredentialService holds the single bearer token for the session.
// An empty token means "not authenticated".
type CredentialService interface {
	// Login exchanges email and password for a token and persists it.
	Login(ctx context.Context, email, password string) error

	// Register creates an account and persists the returned token.
	Register(ctx context.Context, email, password, name string) error

	// Clear forgets the token and removes it from storage.
	Clear(ctx context.Context) error

	// Current returns the token, or "" when not authenticated.
	Current() string

	// IsAuthenticated returns true when a token is held.
	IsAuthenticated() bool

	// Claims decodes the display claims of the current token.
	// Returns domain.ErrNotAuthenticated without a token and
	// domain.ErrOpaqueToken when the token is not a JWT.
	Claims() (*domain.TokenClaims, error)

	// Reload re-reads the persisted token.
	Reload(ctx context.Context) error

	// OnChange registers fn to be called with the new token after every change.
	OnChange(fn func(token string))
}
