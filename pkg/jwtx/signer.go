package jwtx

// Supported JWT signing algorithms.
const (
	AlgorithmRS256 = "RS256"
	AlgorithmEdDSA = "EdDSA"
	AlgorithmHS256 = "HS256"
)

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	Validate() error

	// verificationKey is what a KeySet stores to check this signer's tokens.
	verificationKey() any
}

// PublicSigner is a Signer whose verification key may be published in a JWKS.
// Symmetric signers never implement it.
type PublicSigner interface {
	Signer
	PublicJWK() JWK
}

// NewSignerRS256 creates an RS256 signer from PEM bytes (PKCS1 or PKCS8).
func NewSignerRS256(kid string, pemKey []byte) (Signer, error) {
	return newRS256Signer(kid, pemKey)
}

// NewSignerEdDSA creates an EdDSA signer from PKCS8 PEM bytes.
func NewSignerEdDSA(kid string, pemKey []byte) (Signer, error) {
	return newEdDSASigner(kid, pemKey)
}

// NewSignerHS256 creates an HMAC SHA-256 signer from a shared secret.
func NewSignerHS256(kid string, secret []byte) (Signer, error) {
	return newHS256Signer(kid, secret)
}
