package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/pkg/jwtx"
	"github.com/benbjohnson/clock"
)

// Token is a freshly issued bearer token.
type Token struct {
	Raw       string
	SubjectID string
	TenantID  domain.TenantID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec issues and parses signed gateway tokens. Parsing goes through
// the key manager's pinned verifier, so the key manager must read time from
// the same clock the codec issues with.
type TokenCodec struct {
	signer   jwtx.Signer
	verifier jwtx.Verifier
	issuer   string
	ttl      time.Duration
	clock    clock.Clock
}

// CodecOptions configures a TokenCodec.
type CodecOptions struct {
	TTL   time.Duration // defaults to jwtx.DefaultTokenTTL
	Clock clock.Clock   // defaults to the wall clock; pass its Now to KeyManagerOptions too
}

// NewTokenCodec wires a codec to the active key of km.
func NewTokenCodec(km *jwtx.KeyManager, opts CodecOptions) (*TokenCodec, error) {
	if km == nil || km.Signer == nil || km.Verifier == nil {
		return nil, errors.New("token codec: key manager is required")
	}
	if km.Issuer() == "" {
		return nil, errors.New("token codec: issuer is required")
	}
	if opts.TTL <= 0 {
		opts.TTL = jwtx.DefaultTokenTTL
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}

	return &TokenCodec{
		signer:   km.Signer,
		verifier: km.Verifier,
		issuer:   km.Issuer(),
		ttl:      opts.TTL,
		clock:    opts.Clock,
	}, nil
}

// TTL reports the lifetime of issued tokens.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue signs a token binding id to its tenant until now+TTL.
func (c *TokenCodec) Issue(id domain.Identity) (Token, error) {
	if id.IsZero() || id.TenantID == "" {
		return Token{}, errors.New("token codec: identity must name a user and tenant")
	}

	claims := jwtx.NewClaims(jwtx.ClaimsInput{
		Subject:  id.ID,
		TenantID: id.TenantID.String(),
		Username: id.Username,
		Name:     id.DisplayName,
		Role:     string(id.Role),
	}, c.issuer, c.ttl, c.clock.Now())

	raw, err := c.signer.Sign(claims)
	if err != nil {
		return Token{}, fmt.Errorf("token codec: sign: %w", err)
	}

	return Token{
		Raw:       raw,
		SubjectID: id.ID,
		TenantID:  id.TenantID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Parse verifies raw and returns the identity it carries. An expired token
// with a valid signature yields ErrTokenExpired; every other failure yields
// ErrTokenInvalid. The original cause stays in the chain.
func (c *TokenCodec) Parse(raw string) (domain.Identity, error) {
	claims, err := c.verifier.Verify(raw)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return domain.Identity{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	return domain.Identity{
		ID:          claims.Subject,
		Username:    claims.Username,
		TenantID:    domain.TenantID(claims.TenantID),
		DisplayName: claims.Name,
		Role:        domain.NormalizeRole(claims.Role),
	}, nil
}
