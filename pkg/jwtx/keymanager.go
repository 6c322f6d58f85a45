package jwtx

import (
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tenantgate/pkg/cryptox"
)

// KeyManager wires one active signer to the KeySet and pinned Verifier
// that accept its tokens.
type KeyManager struct {
	Signer   Signer
	Verifier *PinnedVerifier
	KeySet   *KeySet

	issuer string
}

// KeyManagerOptions configures how a KeyManager verifies tokens.
type KeyManagerOptions struct {
	// Algorithm is one of RS256, EdDSA, HS256.
	Algorithm string

	// Issuer is set on issued tokens and enforced on verification.
	Issuer string

	// RSABits sizes generated RSA keys. Defaults to 2048.
	RSABits int

	// Leeway tolerates clock skew on exp/nbf/iat.
	Leeway time.Duration

	// Now overrides the verification clock.
	Now func() time.Time
}

// NewEphemeralKeyManager generates a fresh key that lives only in memory.
// Tokens do not survive a restart, which suits development and tests.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	switch opts.Algorithm {
	case AlgorithmHS256:
		secret, err := cryptox.GenerateSecret(cryptox.MinSecretSize)
		if err != nil {
			return nil, err
		}
		return NewSecretKeyManager(opts, secret)

	case AlgorithmRS256:
		bits := opts.RSABits
		if bits == 0 {
			bits = 2048
		}
		pemBytes, err := cryptox.GenerateRSAKey(bits)
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate RS256 key: %w", err)
		}
		return NewPEMKeyManager(opts, pemBytes)

	case AlgorithmEdDSA:
		pemBytes, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate EdDSA key: %w", err)
		}
		return NewPEMKeyManager(opts, pemBytes)

	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q (supported: RS256, EdDSA, HS256)", opts.Algorithm)
	}
}

// NewPEMKeyManager loads an RS256 or EdDSA private key. The kid is derived
// from the public key so it stays stable across restarts.
func NewPEMKeyManager(opts KeyManagerOptions, pemKey []byte) (*KeyManager, error) {
	key, err := cryptox.ParsePrivateKeyPEM(pemKey)
	if err != nil {
		return nil, fmt.Errorf("jwtx: load signing key: %w", err)
	}
	der, err := x509.MarshalPKIXPublicKey(key.Public())
	if err != nil {
		return nil, fmt.Errorf("jwtx: marshal public key: %w", err)
	}
	kid := deriveKID(der)

	var signer Signer
	switch opts.Algorithm {
	case AlgorithmRS256:
		signer, err = NewSignerRS256(kid, pemKey)
	case AlgorithmEdDSA:
		signer, err = NewSignerEdDSA(kid, pemKey)
	case AlgorithmHS256:
		return nil, errors.New("jwtx: HS256 takes a shared secret, not a private key")
	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q", opts.Algorithm)
	}
	if err != nil {
		return nil, err
	}
	return newKeyManager(opts, signer)
}

// NewSecretKeyManager builds an HS256 manager around a shared secret.
func NewSecretKeyManager(opts KeyManagerOptions, secret []byte) (*KeyManager, error) {
	if opts.Algorithm != AlgorithmHS256 {
		return nil, fmt.Errorf("jwtx: shared secret requires HS256, got %q", opts.Algorithm)
	}
	signer, err := NewSignerHS256(deriveKID(secret), secret)
	if err != nil {
		return nil, err
	}
	return newKeyManager(opts, signer)
}

func newKeyManager(opts KeyManagerOptions, signer Signer) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, errors.New("jwtx: Issuer is required")
	}
	if err := signer.Validate(); err != nil {
		return nil, err
	}

	keys := NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}

	verifier, err := NewVerifier(signer.Alg(), keys, VerifyOptions{
		Issuer: opts.Issuer,
		Leeway: opts.Leeway,
		Now:    opts.Now,
	})
	if err != nil {
		return nil, err
	}

	return &KeyManager{Signer: signer, Verifier: verifier, KeySet: keys, issuer: opts.Issuer}, nil
}

// Algorithm returns the signing algorithm being used.
func (km *KeyManager) Algorithm() string { return km.Signer.Alg() }

// Issuer is stamped on issued tokens and required by Verifier.
func (km *KeyManager) Issuer() string { return km.issuer }

// IsReady returns true if the KeyManager has a verification key loaded.
func (km *KeyManager) IsReady() bool { return km.KeySet.IsReady() }

// deriveKID fingerprints key material into a short, stable key id.
func deriveKID(material []byte) string {
	return "tg-" + cryptox.Fingerprint(material)[:16]
}
