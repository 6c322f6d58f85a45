package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/tenant"
	"github.com/aussiebroadwan/tenantgate/pkg/gatewaysdk"
	"github.com/aussiebroadwan/tenantgate/pkg/httpx"
	"github.com/aussiebroadwan/tenantgate/pkg/slogx"
)

// TenantCache is the administrative view of the tenant connection cache.
type TenantCache interface {
	Reset(ctx context.Context) (int, error)
	Generation() uint64
}

// TenantResetHandler serves POST /api/admin/tenants/reset.
type TenantResetHandler struct {
	Tenants TenantCache
}

// ServeTenant godoc
//
//	@Summary		Reset tenant connections
//	@Description	Drops every cached tenant pool. Requests already in flight finish on their existing connections.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	gatewaysdk.ResetResponse	"pools dropped and new cache generation"
//	@Failure		401	{object}	gatewaysdk.APIError			"Unauthorized access"
//	@Failure		403	{object}	gatewaysdk.APIError			"Forbidden"
//	@Router			/api/admin/tenants/reset [post].
func (h *TenantResetHandler) ServeTenant(w http.ResponseWriter, r *http.Request, id domain.Identity, _ *tenant.Handle) {
	ctx := r.Context()

	n, err := h.Tenants.Reset(ctx)
	if err != nil {
		// Pools are already out of the cache; close errors are not fatal.
		slogx.FromContext(ctx).Warn("tenant reset closed pools with errors", slog.String("error", err.Error()))
	}
	slogx.FromContext(ctx).Info("tenant cache reset by admin", slog.String("user_id", id.ID), slog.Int("pools", n))

	httpx.WriteJSON(w, http.StatusOK, gatewaysdk.ResetResponse{
		Success:    true,
		Message:    "Tenant connection cache cleared",
		Generation: h.Tenants.Generation(),
		Closed:     n,
	})
}
