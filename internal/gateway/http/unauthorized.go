package http

import (
	"net/http"

	"github.com/aussiebroadwan/tenantgate/pkg/gatewaysdk"
)

// UnauthorizedHandler godoc
//
//	@Summary		Unauthorized notice
//	@Description	Always answers 401. Clients are redirected here when their token is missing or no longer valid.
//	@Tags			Users
//	@Produce		json
//	@Failure		401	{object}	gatewaysdk.APIError	"Unauthorized access"
//	@Router			/api/users/unauthorized [get].
func UnauthorizedHandler(w http.ResponseWriter, _ *http.Request) {
	gatewaysdk.ErrUnauthorized.WriteError(w)
}
