package jwtx

import (
	"time"

	"github.com/aussiebroadwan/tenantgate/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of a gateway token: one working day.
const DefaultTokenTTL = 8 * time.Hour

// Claims are the gateway token claims. The registered claims carry the
// subject (user id), issuer and validity window; the rest binds the token
// to a tenant and carries enough identity to skip a store lookup.
type Claims struct {
	jwt.RegisteredClaims

	// TenantID is the tenant partition the bearer is bound to.
	TenantID string `json:"tid"`

	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// ClaimsInput is the identity portion of a token.
type ClaimsInput struct {
	Subject  string
	TenantID string
	Username string
	Name     string
	Role     string
}

// NewClaims builds claims valid from now until now+ttl.
func NewClaims(in ClaimsInput, issuer string, ttl time.Duration, now time.Time) Claims {
	now = now.UTC().Truncate(time.Second)
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   in.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(now),
		},
		TenantID: in.TenantID,
		Username: in.Username,
		Name:     in.Name,
		Role:     in.Role,
	}
}

// NewJTI returns a unique, time-sortable identifier for the "jti" claim.
func NewJTI(now time.Time) string {
	return idx.NewAt(now).String()
}

// Validate is called by the jwt parser after the registered claims have
// been checked. A token that names no subject or tenant cannot be routed.
func (c Claims) Validate() error {
	if c.Subject == "" || c.TenantID == "" {
		return ErrInvalidClaim
	}
	if c.IssuedAt != nil && c.ExpiresAt != nil && !c.ExpiresAt.After(c.IssuedAt.Time) {
		return ErrInvalidClaim
	}
	return nil
}
