package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/service"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/tenant"
	"github.com/aussiebroadwan/tenantgate/pkg/cryptox"
	"github.com/aussiebroadwan/tenantgate/pkg/gatewaysdk"
	"github.com/aussiebroadwan/tenantgate/pkg/httpx"
	"github.com/aussiebroadwan/tenantgate/pkg/jwtx"
	"github.com/aussiebroadwan/tenantgate/pkg/slogx"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct horse battery"

func TestMain(m *testing.M) {
	cryptox.SetPepper("http-test-pepper")
	os.Exit(m.Run())
}

// gateway is a fully wired router over temp-dir sqlite databases.
type gateway struct {
	router   *Router
	store    *sqlite.Store
	clock    *clock.Mock
	resolver *tenant.Resolver
	connects sync.Map // domain.TenantID -> *atomic.Int32
	tenants  string   // directory holding tenant partitions
	ip       atomic.Int32
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	ctx := context.Background()
	g := &gateway{tenants: t.TempDir()}

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "identity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	g.store = st

	hash, err := cryptox.HashPassword(testPassword)
	require.NoError(t, err)
	for _, u := range []domain.User{
		{ID: "u-alice", Username: "alice", DisplayName: "Alice", Role: domain.RoleUser, TenantID: "42"},
		{ID: "u-seven", Username: "seven", Role: domain.RoleUser, TenantID: "7"},
		{ID: "u-ghost", Username: "ghost", Role: domain.RoleUser, TenantID: "999"},
		{ID: "u-root", Username: "root", Role: domain.RoleAdmin, TenantID: domain.DefaultTenant},
	} {
		u.PasswordHash = hash
		u.Active = true
		require.NoError(t, st.Users().CreateUser(ctx, u))
	}

	targets, err := tenant.NewTargets(tenant.TargetsConfig{
		Defaults: tenant.Target{Driver: tenant.DriverSQLite, DSN: filepath.Join(g.tenants, "client_{tenant}.db")},
		Tenants:  map[string]tenant.Target{"42": {}, "7": {}},
	})
	require.NoError(t, err)

	g.resolver = tenant.NewResolver(tenant.ResolverOptions{
		Default: st.DB(),
		Targets: targets,
		Connector: tenant.ConnectorFunc(func(ctx context.Context, id domain.TenantID, target tenant.Target) (*sql.DB, error) {
			n, _ := g.connects.LoadOrStore(id, &atomic.Int32{})
			n.(*atomic.Int32).Add(1)
			return tenant.SQLConnector{}.Connect(ctx, id, target)
		}),
	})
	t.Cleanup(func() { _ = g.resolver.Close() })

	g.clock = clock.NewMock()
	g.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Algorithm: jwtx.AlgorithmEdDSA, Issuer: "tenantgate-test", Now: g.clock.Now})
	require.NoError(t, err)
	codec, err := service.NewTokenCodec(km, service.CodecOptions{Clock: g.clock})
	require.NoError(t, err)

	g.router = NewRouter(km.KeySet, "test", st, slogx.Discard(), httpx.DefaultCORS(""))
	g.router.Authenticator = &service.Authenticator{
		Verifier: &service.CredentialVerifier{Users: st.Users()},
		Codec:    codec,
		Mappings: &service.MappingService{Mappings: st.CompanyMappings(), SystemType: "meetingtrakker"},
	}
	g.router.Resolver = g.resolver
	g.router.ApplyRoutes()
	return g
}

func (g *gateway) connectCount(id domain.TenantID) int32 {
	n, ok := g.connects.Load(id)
	if !ok {
		return 0
	}
	return n.(*atomic.Int32).Load()
}

// seedPartition creates a table with rows in a tenant partition.
func (g *gateway) seedPartition(t *testing.T, id, table string, rows int) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(g.tenants, "client_"+id+".db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(fmt.Sprintf("CREATE TABLE %s (id INTEGER PRIMARY KEY, name TEXT)", table))
	require.NoError(t, err)
	for i := range rows {
		_, err = db.Exec(fmt.Sprintf("INSERT INTO %s (name) VALUES (?)", table), fmt.Sprintf("row-%d", i))
		require.NoError(t, err)
	}
}

func (g *gateway) do(req *http.Request) *httptest.ResponseRecorder {
	// Spread requests over addresses so the login rate limit stays out of the way.
	req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", g.ip.Add(1)))
	rec := httptest.NewRecorder()
	g.router.ServeHTTP(rec, req)
	return rec
}

func (g *gateway) login(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return g.do(req)
}

func (g *gateway) token(t *testing.T, username string) string {
	t.Helper()
	rec := g.login(t, username, testPassword)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp gatewaysdk.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func (g *gateway) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return g.do(req)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestLoginThenTenantScopedRequest(t *testing.T) {
	t.Parallel()

	g := newGateway(t)
	g.seedPartition(t, "42", "employees", 3)

	rec := g.login(t, "alice", testPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	login := decode[gatewaysdk.LoginResponse](t, rec)
	require.True(t, login.Success)
	require.NotEmpty(t, login.Token)
	require.Equal(t, "Bearer "+login.Token, rec.Header().Get("Authorization"))
	require.Equal(t, gatewaysdk.UserSummary{ID: "u-alice", Username: "alice", DisplayName: "Alice", Role: "user", TenantID: "42"}, login.User)
	require.True(t, login.ExpiresAt.Equal(g.clock.Now().Add(8*time.Hour)))

	rec = g.get("/api/users/me", login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[gatewaysdk.MeResponse](t, rec)
	require.Equal(t, "42", me.User.TenantID)

	rec = g.get("/api/dashboard", login.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dash := decode[gatewaysdk.DashboardResponse](t, rec)
	require.Equal(t, "42", dash.TenantID)
	require.Equal(t, map[string]int64{"employees": 3, "job_roles": 0, "role_levels": 0}, dash.Counts)

	require.Equal(t, int32(1), g.connectCount("42"))
}

func TestLoginAcceptsFormBody(t *testing.T) {
	t.Parallel()

	g := newGateway(t)
	form := url.Values{"username": {"alice"}, "password": {testPassword}}
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := g.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Authorization"), "Bearer "))
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()

	g := newGateway(t)

	rec := g.login(t, "alice", "wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, rec.Header().Get("Authorization"))
	require.JSONEq(t, `{"success":false,"message":"Invalid username or password"}`, rec.Body.String())

	rec = g.login(t, "nobody", testPassword)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"success":false,"message":"Invalid username or password"}`, rec.Body.String())

	rec = g.login(t, "alice", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"success":false,"message":"Username and password are required"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec = g.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExpiredTokenNeverReachesResolver(t *testing.T) {
	t.Parallel()

	g := newGateway(t)
	tok := g.token(t, "alice")

	g.clock.Add(8 * time.Hour)

	rec := g.get("/api/dashboard", tok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"success":false,"message":"Unauthorized access"}`, rec.Body.String())
	require.Zero(t, g.connectCount("42"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	g := newGateway(t)
	for _, path := range []string{"/api/users/me", "/api/dashboard"} {
		rec := g.get(path, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)

		rec = g.get(path, "garbage.token.value")
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestUnknownTenantIsNotAnAuthFailure(t *testing.T) {
	t.Parallel()

	g := newGateway(t)
	tok := g.token(t, "ghost")

	rec := g.get("/api/users/me", tok)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"success":false,"message":"Tenant not found"}`, rec.Body.String())
}

func TestConcurrentFirstRequestsBuildOnePool(t *testing.T) {
	t.Parallel()

	g := newGateway(t)
	tok := g.token(t, "seven")

	const n = 8
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes[i] = g.get("/api/dashboard", tok).Code
		}()
	}
	wg.Wait()

	for _, code := range codes {
		require.Equal(t, http.StatusOK, code)
	}
	require.Equal(t, int32(1), g.connectCount("7"))
}

func TestTokenFromQueryParameter(t *testing.T) {
	t.Parallel()

	g := newGateway(t)
	tok := g.token(t, "alice")

	rec := g.get("/api/users/me?token="+url.QueryEscape(tok), "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPreflightBypassesGates(t *testing.T) {
	t.Parallel()

	g := newGateway(t)
	for _, path := range []string{"/api/users/me", "/api/dashboard", "/api/admin/tenants/reset", "/api/users/login"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "https://app.example")
		rec := g.do(req)

		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Empty(t, rec.Body.String())
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "Authorization", rec.Header().Get("Access-Control-Expose-Headers"))
		require.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
	}
}

func TestPublicOperations(t *testing.T) {
	t.Parallel()

	g := newGateway(t)

	rec := g.get("/api/users/unauthorized", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"success":false,"message":"Unauthorized access"}`, rec.Body.String())

	rec = g.get("/livez", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[gatewaysdk.HealthResponse](t, rec).Status)

	rec = g.get("/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decode[gatewaysdk.HealthResponse](t, rec)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok: 2 configured", ready.Checks.Tenants)

	rec = g.get("/.well-known/jwks.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	jwks := decode[gatewaysdk.JWKSResponse](t, rec)
	require.Len(t, jwks.Keys, 1)

	rec = g.get("/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestReadyzDegradedWhenStoreDown(t *testing.T) {
	t.Parallel()

	g := newGateway(t)
	require.NoError(t, g.store.Close())

	rec := g.get("/readyz", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	ready := decode[gatewaysdk.HealthResponse](t, rec)
	require.Equal(t, "degraded", ready.Status)
	require.Equal(t, "error", ready.Checks.Database)
	require.NotContains(t, rec.Body.String(), "closed", "driver errors stay in the logs")
}

func TestTenantResetRequiresAdmin(t *testing.T) {
	t.Parallel()

	g := newGateway(t)

	alice := g.token(t, "alice")
	require.Equal(t, http.StatusOK, g.get("/api/users/me", alice).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/tenants/reset", nil)
	req.Header.Set("Authorization", "Bearer "+alice)
	rec := g.do(req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.JSONEq(t, `{"success":false,"message":"Forbidden"}`, rec.Body.String())

	root := g.token(t, "root")
	req = httptest.NewRequest(http.MethodPost, "/api/admin/tenants/reset", nil)
	req.Header.Set("Authorization", "Bearer "+root)
	rec = g.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	reset := decode[gatewaysdk.ResetResponse](t, rec)
	require.True(t, reset.Success)
	require.Equal(t, 1, reset.Closed)
	require.Equal(t, uint64(1), reset.Generation)

	// the next request for tenant 42 builds a fresh pool
	require.Equal(t, http.StatusOK, g.get("/api/users/me", alice).Code)
	require.Equal(t, int32(2), g.connectCount("42"))
}

func TestTenantResetLimitedPerCaller(t *testing.T) {
	t.Parallel()

	g := newGateway(t)
	root := g.token(t, "root")
	alice := g.token(t, "alice")

	reset := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/tenants/reset", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("X-Forwarded-For", "10.9.9.9")
		rec := httptest.NewRecorder()
		g.router.ServeHTTP(rec, req)
		return rec
	}

	for i := range httpx.ModerateLimit.Burst {
		require.Equal(t, http.StatusOK, reset(root).Code, "reset %d", i)
	}
	rec := reset(root)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// the limit sits behind authorization, so other callers are judged on their own
	require.Equal(t, http.StatusForbidden, reset(alice).Code)
	require.Equal(t, http.StatusUnauthorized, reset("").Code)
}

func TestLoginAppliesCompanyMapping(t *testing.T) {
	t.Parallel()

	g := newGateway(t)
	require.NoError(t, g.store.CompanyMappings().CreateMapping(context.Background(), domain.CompanyMapping{
		ID: "m1", UserID: "u-ghost", Username: "ghost", MappedTenantID: "7", SourceTenantID: "999",
		SystemType: "meetingtrakker", Active: true,
	}))

	tok := g.token(t, "ghost")
	rec := g.get("/api/users/me", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "7", decode[gatewaysdk.MeResponse](t, rec).User.TenantID)
}
