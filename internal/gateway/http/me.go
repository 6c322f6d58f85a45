package http

import (
	"net/http"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/tenant"
	"github.com/aussiebroadwan/tenantgate/pkg/gatewaysdk"
	"github.com/aussiebroadwan/tenantgate/pkg/httpx"
)

// MeHandler godoc
//
//	@Summary		Current caller
//	@Description	Returns the identity carried by the presented token, including the tenant it is bound to.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	gatewaysdk.MeResponse	"identity summary"
//	@Failure		401	{object}	gatewaysdk.APIError		"Unauthorized access"
//	@Failure		404	{object}	gatewaysdk.APIError		"Tenant not found"
//	@Router			/api/users/me [get].
func MeHandler(w http.ResponseWriter, _ *http.Request, id domain.Identity, _ *tenant.Handle) {
	httpx.WriteJSON(w, http.StatusOK, gatewaysdk.MeResponse{
		Success: true,
		User:    summarize(id),
	})
}
