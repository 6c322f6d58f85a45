package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/tenantgate/pkg/jwtx"
)

// InitKeys builds the KeyManager for the configured key mode.
//
// Key modes:
//   - "ephemeral": a key is generated on startup and lives only in memory.
//     Issued tokens stop verifying when the process restarts.
//   - "file": an RS256 or EdDSA private key is read from PrivateKeyFile.
//     The kid is derived from the public key, so tokens survive restarts.
//   - "secret": an HS256 shared secret is taken from SharedSecret.
func InitKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	opts := jwtx.KeyManagerOptions{
		Algorithm: cfg.Algorithm,
		Issuer:    cfg.Issuer,
		RSABits:   cfg.RSABits,
	}

	var (
		km  *jwtx.KeyManager
		err error
	)
	switch cfg.KeyMode {
	case KeyModeEphemeral, "":
		km, err = jwtx.NewEphemeralKeyManager(opts)

	case KeyModeFile:
		if cfg.PrivateKeyFile == "" {
			return nil, fmt.Errorf("key mode %q requires GATEWAY_PRIVATE_KEY_FILE", cfg.KeyMode)
		}
		pemKey, readErr := os.ReadFile(filepath.Clean(cfg.PrivateKeyFile))
		if readErr != nil {
			return nil, fmt.Errorf("read private key: %w", readErr)
		}
		km, err = jwtx.NewPEMKeyManager(opts, pemKey)

	case KeyModeSecret:
		if cfg.SharedSecret == "" {
			return nil, fmt.Errorf("key mode %q requires GATEWAY_SHARED_SECRET", cfg.KeyMode)
		}
		km, err = jwtx.NewSecretKeyManager(opts, []byte(cfg.SharedSecret))

	default:
		return nil, fmt.Errorf("unknown key mode %q (supported: ephemeral, file, secret)", cfg.KeyMode)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("signing key ready",
		slog.String("mode", cfg.KeyMode),
		slog.String("alg", km.Algorithm()),
		slog.String("kid", km.Signer.KID()),
	)
	return km, nil
}
