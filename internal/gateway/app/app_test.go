package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		Issuer:              "tenantgate-test",
		Algorithm:           "EdDSA",
		KeyMode:             KeyModeEphemeral,
		DatabaseFile:        filepath.Join(dir, "gateway.db"),
		PepperFile:          filepath.Join(dir, "pepper"),
		SystemType:          "meetingtrakker",
		ConnectTimeout:      time.Second,
		Env:                 "test",
		LogLevel:            "error",
		Port:                0,
		ShutdownGracePeriod: time.Second,
	}
}

func writeTenants(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tenants.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewServesHealth(t *testing.T) {
	app, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, err = os.Stat(app.cfg.PepperFile)
	require.NoError(t, err, "pepper is generated on first start")
}

func TestNewRejectsInvalidTenants(t *testing.T) {
	cfg := testConfig(t)
	cfg.TenantsFile = writeTenants(t, "tenants:\n  default:\n    driver: sqlite\n    dsn: x.db\n")

	_, err := New(cfg)
	require.ErrorContains(t, err, "invalid tenant config")
}

func TestReloadSwapsPartitions(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.TenantsFile = writeTenants(t, "defaults:\n  driver: sqlite\n  dsn: "+filepath.Join(dir, "client_{tenant}.db")+"\ntenants:\n  \"42\": {}\n")

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	require.Equal(t, 1, app.resolver.Targets().Len())

	require.NoError(t, os.WriteFile(cfg.TenantsFile, []byte("defaults:\n  driver: sqlite\n  dsn: "+filepath.Join(dir, "client_{tenant}.db")+"\ntenants:\n  \"42\": {}\n  \"7\": {}\n"), 0o600))
	require.NoError(t, app.Reload(context.Background()))
	require.Equal(t, 2, app.resolver.Targets().Len())
	require.Equal(t, uint64(1), app.resolver.Generation())

	// a broken file keeps what is loaded
	require.NoError(t, os.WriteFile(cfg.TenantsFile, []byte("tenants: [oops"), 0o600))
	require.Error(t, app.Reload(context.Background()))
	require.Equal(t, 2, app.resolver.Targets().Len())
}
