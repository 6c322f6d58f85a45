package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseEd25519(t *testing.T) {
	t.Parallel()

	pemBytes, err := GenerateEd25519Key()
	require.NoError(t, err)

	key, err := ParsePrivateKeyPEM(pemBytes)
	require.NoError(t, err)
	require.IsType(t, ed25519.PrivateKey{}, key)
}

func TestGenerateAndParseRSA(t *testing.T) {
	t.Parallel()

	_, err := GenerateRSAKey(1024)
	require.Error(t, err)

	pemBytes, err := GenerateRSAKey(2048)
	require.NoError(t, err)

	key, err := ParsePrivateKeyPEM(pemBytes)
	require.NoError(t, err)
	rsaKey, ok := key.(*rsa.PrivateKey)
	require.True(t, ok)
	require.Equal(t, 2048, rsaKey.N.BitLen())
}

func TestParsePKCS1(t *testing.T) {
	t.Parallel()

	k, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(k)})

	key, err := ParsePrivateKeyPEM(pemBytes)
	require.NoError(t, err)
	require.True(t, k.Equal(key))
}

func TestParsePrivateKeyPEMRejects(t *testing.T) {
	t.Parallel()

	_, err := ParsePrivateKeyPEM([]byte("not pem"))
	require.Error(t, err)

	_, err = ParsePrivateKeyPEM(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte{1}}))
	require.Error(t, err)
}
