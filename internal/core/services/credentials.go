package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driving"
	"github.com/docfoundry/docfoundry-cli/internal/logger"
)

// Ensure CredentialService implements the interface.
var _ driving.CredentialService = (*CredentialService)(nil)

// TokenSource supplies the bearer token for outgoing calls.
type TokenSource interface {
	Current() string
}

// CredentialService holds the session's bearer token and keeps it in
// sync with a TokenStore under domain.TokenKey.
type CredentialService struct {
	auth   driven.AuthBackend
	store  driven.TokenStore
	claims driven.ClaimsDecoder

	mu        sync.RWMutex
	token     string
	listeners []func(string)
}

// NewCredentialService creates a credential service and loads any
// persisted token. A load failure is logged and leaves the session
// unauthenticated.
func NewCredentialService(
	ctx context.Context,
	auth driven.AuthBackend,
	store driven.TokenStore,
	claims driven.ClaimsDecoder,
) *CredentialService {
	s := &CredentialService{
		auth:   auth,
		store:  store,
		claims: claims,
	}
	if store != nil {
		token, err := store.Load(ctx, domain.TokenKey)
		if err != nil {
			logger.Warn("Failed to load stored token: %v", err)
		}
		s.token = token
	}
	return s
}

// Login exchanges email and password for a token and persists it.
// On failure the current token is left unchanged.
func (s *CredentialService) Login(ctx context.Context, email, password string) error {
	if s.auth == nil {
		return domain.ErrNotImplemented
	}
	resp, err := s.auth.Login(ctx, domain.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	return s.set(ctx, resp.Token)
}

// Register creates an account and persists the returned token.
func (s *CredentialService) Register(ctx context.Context, email, password, name string) error {
	if s.auth == nil {
		return domain.ErrNotImplemented
	}
	resp, err := s.auth.Register(ctx, domain.RegisterRequest{Email: email, Password: password, Name: name})
	if err != nil {
		return err
	}
	return s.set(ctx, resp.Token)
}

// Clear forgets the token and removes it from storage.
func (s *CredentialService) Clear(ctx context.Context) error {
	return s.set(ctx, "")
}

// Current returns the token, or "" when not authenticated.
func (s *CredentialService) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated returns true when a token is held.
func (s *CredentialService) IsAuthenticated() bool {
	return s.Current() != ""
}

// Claims decodes the display claims of the current token.
func (s *CredentialService) Claims() (*domain.TokenClaims, error) {
	token := s.Current()
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if s.claims == nil {
		return nil, domain.ErrOpaqueToken
	}
	return s.claims.Decode(token)
}

// Reload re-reads the persisted token, notifying listeners if it changed.
func (s *CredentialService) Reload(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	token, err := s.store.Load(ctx, domain.TokenKey)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}

	s.mu.Lock()
	changed := token != s.token
	s.token = token
	listeners := append([]func(string){}, s.listeners...)
	s.mu.Unlock()

	if changed {
		logger.Debug("Token reloaded from store (authenticated=%t)", token != "")
		for _, fn := range listeners {
			fn(token)
		}
	}
	return nil
}

// OnChange registers fn to be called with the new token after every change.
func (s *CredentialService) OnChange(fn func(token string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// set replaces the token in memory and in the store. An empty token
// deletes the persisted value. The in-memory token is updated even
// when persisting fails.
func (s *CredentialService) set(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	listeners := append([]func(string){}, s.listeners...)
	s.mu.Unlock()

	var err error
	if s.store != nil {
		if token == "" {
			err = s.store.Delete(ctx, domain.TokenKey)
		} else {
			err = s.store.Save(ctx, domain.TokenKey, token)
		}
	}

	for _, fn := range listeners {
		fn(token)
	}

	if err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}
