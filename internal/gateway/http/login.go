package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/service"
	"github.com/aussiebroadwan/tenantgate/pkg/gatewaysdk"
	"github.com/aussiebroadwan/tenantgate/pkg/httpx"
	"github.com/aussiebroadwan/tenantgate/pkg/slogx"
)

const maxLoginBody = 64 << 10

// PasswordAuthenticator exchanges a username and password for a token.
type PasswordAuthenticator interface {
	Login(ctx context.Context, username, password string) service.Result
}

// LoginHandler serves POST /api/users/login.
type LoginHandler struct {
	Authn PasswordAuthenticator
}

// ServeHTTP godoc
//
//	@Summary		Password login
//	@Description	Verifies a username and password against the identity store and returns a token bound to the caller's tenant.
//	@Description	The token is also returned in the Authorization response header.
//	@Tags			Users
//	@Accept			json
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		gatewaysdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	gatewaysdk.LoginResponse	"token and user summary"
//	@Failure		400		{object}	gatewaysdk.APIError			"Username and password are required"
//	@Failure		401		{object}	gatewaysdk.APIError			"Invalid username or password"
//	@Failure		429		{object}	gatewaysdk.APIError			"Too many requests"
//	@Failure		500		{object}	gatewaysdk.APIError			"Internal server error"
//	@Header			200		{string}	Authorization				"Bearer {token}"
//	@Router			/api/users/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLogin(w, r)
	if err != nil {
		gatewaysdk.ErrInvalidBody.WriteError(w)
		return
	}
	if req.Username == "" || req.Password == "" {
		gatewaysdk.ErrMissingCredentials.WriteError(w)
		return
	}

	res := h.Authn.Login(r.Context(), req.Username, req.Password)
	if !res.OK() || res.Token == nil {
		switch {
		case errors.Is(res.Err, service.ErrMissingCredentials):
			gatewaysdk.ErrMissingCredentials.WriteError(w)
		case errors.Is(res.Err, service.ErrInvalidCredentials):
			gatewaysdk.ErrInvalidCredentials.WriteError(w)
		default:
			slogx.FromContext(r.Context()).Error("login failed", slog.Any("error", res.Err))
			gatewaysdk.ErrServerError.WriteError(w)
		}
		return
	}

	w.Header().Set("Authorization", "Bearer "+res.Token.Raw)
	httpx.WriteJSON(w, http.StatusOK, gatewaysdk.LoginResponse{
		Success:   true,
		Token:     res.Token.Raw,
		ExpiresAt: res.Token.ExpiresAt,
		User:      summarize(res.Identity),
	})
}

// decodeLogin accepts a JSON body or form fields.
func decodeLogin(w http.ResponseWriter, r *http.Request) (gatewaysdk.LoginRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBody)

	var req gatewaysdk.LoginRequest
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, err
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Username = r.PostForm.Get("username")
	req.Password = r.PostForm.Get("password")
	return req, nil
}

func summarize(id domain.Identity) gatewaysdk.UserSummary {
	return gatewaysdk.UserSummary{
		ID:          id.ID,
		Username:    id.Username,
		DisplayName: id.DisplayName,
		Role:        string(id.Role),
		TenantID:    id.TenantID.String(),
	}
}
