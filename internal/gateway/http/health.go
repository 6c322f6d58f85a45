package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tenantgate/pkg/gatewaysdk"
	"github.com/aussiebroadwan/tenantgate/pkg/httpx"
	"github.com/aussiebroadwan/tenantgate/pkg/jwtx"
	"github.com/aussiebroadwan/tenantgate/pkg/slogx"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always returns 200 while the process is serving, with uptime and version.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	gatewaysdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, gatewaysdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the identity store, the signing keys and the tenant partition set.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	gatewaysdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	gatewaysdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, db Pinger, keys *jwtx.KeySet, tenants func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &gatewaysdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
			Tenants:  fmt.Sprintf("ok: %d configured", tenants()),
		}
		status := "ok"
		code := http.StatusOK

		if err := db.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Error("readiness: identity store unreachable", slog.String("error", err.Error()))
			checks.Database = "error"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		// HS256 keeps its secret out of the JWKS but still verifies.
		if !keys.IsReady() {
			slogx.FromContext(r.Context()).Error("readiness: no signing keys loaded")
			checks.Signer = "error"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, gatewaysdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

// JWKSHandler godoc
//
//	@Summary		JSON Web Key Set
//	@Description	Public keys for verifying gateway tokens. Shared HS256 secrets are never published.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	gatewaysdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, gatewaysdk.JWKSResponse(keys.PublicJWKS()))
	}
}
