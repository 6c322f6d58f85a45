package jwtx

import (
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// VerifyOptions captures the expectations a verifier enforces.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Leeway allows small clock skew when validating exp/nbf/iat.
	Leeway time.Duration

	// Now supplies the current time. Defaults to time.Now.
	Now func() time.Time
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// PinnedVerifier accepts only tokens signed with one algorithm. The alg
// header of the token selects nothing; a mismatch is a rejection.
type PinnedVerifier struct {
	alg    string
	keys   *KeySet
	parser *jwt.Parser
}

// NewVerifier returns a verifier pinned to alg, resolving keys by kid.
func NewVerifier(alg string, keys *KeySet, opts VerifyOptions) (*PinnedVerifier, error) {
	switch alg {
	case AlgorithmRS256, AlgorithmEdDSA, AlgorithmHS256:
	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q (supported: RS256, EdDSA, HS256)", alg)
	}

	popts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{alg}),
		// Padding bits in the last character of a segment must be zero, so
		// no two encodings of one token both verify.
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(opts.Leeway),
	}
	if opts.Issuer != "" {
		popts = append(popts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Now != nil {
		popts = append(popts, jwt.WithTimeFunc(opts.Now))
	}

	return &PinnedVerifier{alg: alg, keys: keys, parser: jwt.NewParser(popts...)}, nil
}

// Alg reports the algorithm this verifier is pinned to.
func (v *PinnedVerifier) Alg() string { return v.alg }

// Verify checks signature first, then claims. A token that is both
// tampered and expired reports the signature failure.
func (v *PinnedVerifier) Verify(raw string) (Claims, error) {
	var claims Claims
	_, err := v.parser.ParseWithClaims(raw, &claims, v.keyFunc)
	if err != nil {
		return Claims{}, classify(err)
	}
	return claims, nil
}

func (v *PinnedVerifier) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("%w: missing kid", ErrUnknownKID)
	}

	key, err := v.keys.Get(kid)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
	}

	// The key stored under kid must belong to the pinned algorithm.
	switch k := key.(type) {
	case *rsa.PublicKey:
		if v.alg == AlgorithmRS256 {
			return k, nil
		}
	case ed25519.PublicKey:
		if v.alg == AlgorithmEdDSA {
			return k, nil
		}
	case []byte:
		if v.alg == AlgorithmHS256 {
			return k, nil
		}
	}
	return nil, fmt.Errorf("%w: key %q does not match %s", ErrAlgMismatch, kid, v.alg)
}

// classify folds jwt errors into the jwtx sentinels while keeping the
// original chain for logging.
func classify(err error) error {
	var sentinel error
	switch {
	case errors.Is(err, ErrUnknownKID):
		sentinel = ErrUnknownKID
	case errors.Is(err, ErrAlgMismatch):
		sentinel = ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		sentinel = ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		sentinel = ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		sentinel = ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		sentinel = ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		sentinel = ErrIssuer
	default:
		sentinel = ErrInvalidClaim
	}
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
