package gatewaysdk

import (
	"time"

	"github.com/aussiebroadwan/tenantgate/pkg/jwtx"
)

// LoginRequest is the body of POST /api/users/login. The endpoint also
// accepts the same fields form encoded.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserSummary is the caller identity as exposed over the API.
type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	TenantID    string `json:"tenant_id"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Success   bool        `json:"success"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	Success bool        `json:"success"`
	User    UserSummary `json:"user"`
}

// DashboardResponse summarises row counts from the caller's tenant
// partition. Tables that do not exist in the partition count as zero.
type DashboardResponse struct {
	Success  bool             `json:"success"`
	TenantID string           `json:"tenant_id"`
	Counts   map[string]int64 `json:"counts"`
}

// ResetResponse is returned after the tenant connection cache is cleared.
type ResetResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Generation uint64 `json:"generation"`
	Closed     int    `json:"closed"`
}

// HealthResponse is served by /livez and /readyz (Checks only on readyz).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks is the status of each dependency readyz probes.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
	Tenants  string `json:"tenants"`
}

// JWKSResponse contains the JSON Web Key Set.
type JWKSResponse jwtx.JWKS
