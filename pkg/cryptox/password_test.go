package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPepper = "unit-test-pepper"

func TestMain(m *testing.M) {
	SetPepper(testPepper)
	os.Exit(m.Run())
}

func TestHashPasswordPHCFormat(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6)
	require.Equal(t, "argon2id", parts[1])
	require.Equal(t, "v=19", parts[2])
	require.Equal(t, "m=19456,t=2,p=1", parts[3])
	require.NotEmpty(t, parts[4])
	require.NotEmpty(t, parts[5])

	other, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEqual(t, hash, other, "salts must differ")
}

func TestVerifyPasswordArgon2id(t *testing.T) {
	for _, pw := range []string{"password123", "P@ssw0rd!#$%^&*()", "", "пароль🔒密码", strings.Repeat("a", 100)} {
		hash, err := HashPassword(pw)
		require.NoError(t, err)
		require.NoError(t, VerifyPassword(pw, hash), "password %q", pw)
	}

	hash, err := HashPassword("correct-password")
	require.NoError(t, err)
	for _, wrong := range []string{"wrong-password", "Correct-Password", "correct-password ", "", strings.Repeat("x", 10000)} {
		require.ErrorIs(t, VerifyPassword(wrong, hash), ErrPasswordMismatch, "password %q", wrong)
	}
}

func TestVerifyPasswordBcrypt(t *testing.T) {
	raw, err := bcrypt.GenerateFromPassword([]byte("legacy-secret"), bcrypt.MinCost)
	require.NoError(t, err)

	// PHP's password_hash writes $2y$; the algorithm is identical.
	php := "$2y$" + strings.TrimPrefix(string(raw), "$2a$")

	for _, hash := range []string{string(raw), php} {
		require.NoError(t, VerifyPassword("legacy-secret", hash))
		require.ErrorIs(t, VerifyPassword("legacy-secreT", hash), ErrPasswordMismatch)
	}
}

func TestVerifyPasswordPepperMatters(t *testing.T) {
	hash, err := HashPassword("peppered")
	require.NoError(t, err)

	SetPepper("a-different-pepper")
	t.Cleanup(func() { SetPepper(testPepper) })

	require.ErrorIs(t, VerifyPassword("peppered", hash), ErrPasswordMismatch)
}

func TestVerifyPasswordInvalidHash(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"plaintext":      "hunter2",
		"unknown scheme": "$scrypt$ln=15$abc$def",
		"missing parts":  "$argon2id$v=19$m=19456",
		"bad params":     "$argon2id$v=19$invalid$c2FsdA$aGFzaA",
		"bad salt":       "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
		"bad hash":       "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!",
		"wrong version":  "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"short bcrypt":   "$2y$10$short",
	}

	for name, hash := range tests {
		t.Run(name, func(t *testing.T) {
			err := VerifyPassword("test-password", hash)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrPasswordMismatch)
		})
	}
}

func TestVerifyPasswordRejectsUnsafeArgonParams(t *testing.T) {
	const salt = "c2FsdHNhbHQ"                                 // 8 bytes
	const hash = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" // 32 bytes

	tests := map[string]string{
		"zero parallelism": "$argon2id$v=19$m=19456,t=2,p=0$" + salt + "$" + hash,
		"zero iterations":  "$argon2id$v=19$m=19456,t=0,p=1$" + salt + "$" + hash,
		"memory too low":   "$argon2id$v=19$m=4,t=2,p=1$" + salt + "$" + hash,
		"memory too high":  "$argon2id$v=19$m=4194304,t=2,p=1$" + salt + "$" + hash,
		"iterations high":  "$argon2id$v=19$m=19456,t=1000,p=1$" + salt + "$" + hash,
		"empty hash":       "$argon2id$v=19$m=19456,t=2,p=1$" + salt + "$",
		"short hash":       "$argon2id$v=19$m=19456,t=2,p=1$" + salt + "$AAAA",
		"empty salt":       "$argon2id$v=19$m=19456,t=2,p=1$$" + hash,
	}

	for name, encoded := range tests {
		t.Run(name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { err = VerifyPassword("x", encoded) })
			require.ErrorIs(t, err, ErrUnsupportedHash)
		})
	}
}

func TestDummyVerifyDoesNotPanic(t *testing.T) {
	DummyVerify("anything")
	DummyVerify("")
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		pw, err := GeneratePassword()
		require.NoError(t, err)
		require.Len(t, pw, 16)
		for _, c := range pw {
			ok := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
			require.True(t, ok, "unexpected rune %q", c)
		}
		require.NotContains(t, seen, pw)
		seen[pw] = struct{}{}
	}
}

func TestLoadPepperFromFile(t *testing.T) {
	t.Cleanup(func() {
		SetPepperPath("")
		SetPepper(testPepper)
	})

	path := filepath.Join(t.TempDir(), "nested", "pepper")
	SetPepperPath(path)

	require.NoError(t, LoadPepper())
	generated := GetPepper()
	require.NotEmpty(t, generated)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, generated, string(data))

	// a second load reads the same value back
	SetPepperPath(path)
	require.NoError(t, LoadPepper())
	require.Equal(t, generated, GetPepper())
}

func TestLoadPepperWithoutPath(t *testing.T) {
	t.Cleanup(func() { SetPepper(testPepper) })
	SetPepperPath("")
	require.Error(t, LoadPepper())
}
