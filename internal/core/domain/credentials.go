package domain

import "time"

// TokenKey is the key under which the bearer token is persisted.
const TokenKey = "docfoundry_token"

// TokenClaims are the display-only claims decoded from a bearer token.
// They are never verified; the backend is the only authority.
type TokenClaims struct {
	// Subject is the user id the token was issued for.
	Subject string

	// Email is the account email, when the backend includes it.
	Email string

	// Name is the display name, when the backend includes it.
	Name string

	// ExpiresAt is zero when the token carries no exp claim.
	ExpiresAt time.Time
}

// IsExpired returns true if the token carries an expiry in the past.
func (c *TokenClaims) IsExpired() bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(c.ExpiresAt)
}

// Identity returns the most descriptive identifier available.
func (c *TokenClaims) Identity() string {
	if c == nil {
		return ""
	}
	switch {
	case c.Email != "":
		return c.Email
	case c.Name != "":
		return c.Name
	default:
		return c.Subject
	}
}

// AuthResponse is the body returned by /auth/login and /auth/register.
type AuthResponse struct {
	Token string `json:"token"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name,omitempty"`
}
