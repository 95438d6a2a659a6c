package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
)

// Ensure JWTDecoder implements the interface.
var _ driven.ClaimsDecoder = (*JWTDecoder)(nil)

// claims mirrors the payload the backend issues.
type claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// JWTDecoder reads claims from a JWT without verifying it.
type JWTDecoder struct {
	parser *jwt.Parser
}

// NewJWTDecoder creates a decoder.
func NewJWTDecoder() *JWTDecoder {
	return &JWTDecoder{parser: jwt.NewParser()}
}

// Decode parses token and returns its claims. Tokens that are not JWTs
// fail with domain.ErrOpaqueToken.
func (d *JWTDecoder) Decode(token string) (*domain.TokenClaims, error) {
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}

	var c claims
	if _, _, err := d.parser.ParseUnverified(token, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOpaqueToken, err)
	}

	out := &domain.TokenClaims{
		Subject: c.Subject,
		Email:   c.Email,
		Name:    c.Name,
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time.In(time.UTC)
	}
	return out, nil
}
