package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/tenantgate/pkg/cryptox"
	"github.com/aussiebroadwan/tenantgate/pkg/jwtx"
	"github.com/aussiebroadwan/tenantgate/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestInitKeysModes(t *testing.T) {
	t.Parallel()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	keyFile := filepath.Join(t.TempDir(), "signing.pem")
	require.NoError(t, os.WriteFile(keyFile, pemKey, 0o600))

	tests := []struct {
		name    string
		cfg     Config
		wantAlg string
		wantErr bool
	}{
		{name: "ephemeral", cfg: Config{KeyMode: KeyModeEphemeral, Algorithm: jwtx.AlgorithmEdDSA}, wantAlg: jwtx.AlgorithmEdDSA},
		{name: "file", cfg: Config{KeyMode: KeyModeFile, Algorithm: jwtx.AlgorithmEdDSA, PrivateKeyFile: keyFile}, wantAlg: jwtx.AlgorithmEdDSA},
		{name: "secret", cfg: Config{KeyMode: KeyModeSecret, Algorithm: jwtx.AlgorithmHS256, SharedSecret: strings.Repeat("k", 32)}, wantAlg: jwtx.AlgorithmHS256},
		{name: "file without path", cfg: Config{KeyMode: KeyModeFile, Algorithm: jwtx.AlgorithmEdDSA}, wantErr: true},
		{name: "missing key file", cfg: Config{KeyMode: KeyModeFile, Algorithm: jwtx.AlgorithmEdDSA, PrivateKeyFile: keyFile + ".nope"}, wantErr: true},
		{name: "secret without value", cfg: Config{KeyMode: KeyModeSecret, Algorithm: jwtx.AlgorithmHS256}, wantErr: true},
		{name: "unknown mode", cfg: Config{KeyMode: "persistent", Algorithm: jwtx.AlgorithmEdDSA}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tt.cfg.Issuer = "tenantgate-test"
			km, err := InitKeys(tt.cfg, slogx.Discard())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantAlg, km.Algorithm())
			require.True(t, km.IsReady())
		})
	}
}
