package jwtx

import (
	"fmt"

	"github.com/aussiebroadwan/tenantgate/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// HS256Signer signs with a shared HMAC secret. The secret doubles as the
// verification key, so it is never published.
type HS256Signer struct {
	kid    string
	secret []byte
}

func newHS256Signer(kid string, secret []byte) (*HS256Signer, error) {
	s := &HS256Signer{kid: kid, secret: append([]byte(nil), secret...)}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *HS256Signer) Alg() string { return AlgorithmHS256 }
func (s *HS256Signer) KID() string { return s.kid }

func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.secret)
}

// Validate rejects secrets shorter than the HMAC output size.
func (s *HS256Signer) Validate() error {
	if len(s.secret) < cryptox.MinSecretSize {
		return fmt.Errorf("jwtx: HS256 secret must be at least %d bytes", cryptox.MinSecretSize)
	}
	return nil
}

func (s *HS256Signer) verificationKey() any { return s.secret }
