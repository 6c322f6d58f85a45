package gatewaysdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/tenantgate/pkg/gatewaysdk"
	"github.com/aussiebroadwan/tenantgate/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func fakeGateway(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users/login", func(w http.ResponseWriter, r *http.Request) {
		var req gatewaysdk.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			gatewaysdk.ErrInvalidBody.WriteError(w)
			return
		}
		if req.Password != "right" {
			gatewaysdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, gatewaysdk.LoginResponse{
			Success: true,
			Token:   "tok-" + req.Username,
			User:    gatewaysdk.UserSummary{ID: "u1", Username: req.Username, TenantID: "42"},
		})
	})
	mux.HandleFunc("GET /api/users/me", func(w http.ResponseWriter, r *http.Request) {
		if httpx.BearerToken(r) != "tok-alice" {
			gatewaysdk.ErrUnauthorized.WriteError(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, gatewaysdk.MeResponse{
			Success: true,
			User:    gatewaysdk.UserSummary{ID: "u1", Username: "alice", TenantID: "42"},
		})
	})
	mux.HandleFunc("GET /api/dashboard", func(w http.ResponseWriter, _ *http.Request) {
		gatewaysdk.ErrTenantNotFound.WriteError(w)
	})
	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>proxy error</html>"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientLoginThenMe(t *testing.T) {
	t.Parallel()

	c := gatewaysdk.NewClient(fakeGateway(t).URL + "/")
	ctx := context.Background()

	_, err := c.Me(ctx)
	require.ErrorIs(t, err, gatewaysdk.ErrUnauthorized)

	login, err := c.Login(ctx, "alice", "right")
	require.NoError(t, err)
	require.True(t, login.Success)
	require.Equal(t, "tok-alice", c.Token())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "42", me.User.TenantID)
}

func TestClientErrorsCarryServerMessage(t *testing.T) {
	t.Parallel()

	c := gatewaysdk.NewClient(fakeGateway(t).URL)
	ctx := context.Background()

	_, err := c.Login(ctx, "alice", "wrong")
	var apiErr *gatewaysdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid username or password", apiErr.Message)
	require.Empty(t, c.Token())

	_, err = c.Dashboard(ctx)
	require.ErrorIs(t, err, gatewaysdk.ErrTenantNotFound)

	// non-JSON bodies fall back to the status text
	_, err = c.Liveness(ctx)
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestWriteErrorEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	gatewaysdk.ErrMissingCredentials.WriteError(rec)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"success":false,"message":"Username and password are required"}`, rec.Body.String())
}
