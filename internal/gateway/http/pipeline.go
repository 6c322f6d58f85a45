package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/metrics"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/service"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/tenant"
	"github.com/aussiebroadwan/tenantgate/pkg/gatewaysdk"
	"github.com/aussiebroadwan/tenantgate/pkg/httpx"
	"github.com/aussiebroadwan/tenantgate/pkg/slogx"
)

// TenantHandler serves a request that has passed every gate. The handle
// is released by the pipeline once ServeTenant returns.
type TenantHandler interface {
	ServeTenant(w http.ResponseWriter, r *http.Request, id domain.Identity, h *tenant.Handle)
}

// TenantHandlerFunc adapts a function to TenantHandler.
type TenantHandlerFunc func(w http.ResponseWriter, r *http.Request, id domain.Identity, h *tenant.Handle)

func (f TenantHandlerFunc) ServeTenant(w http.ResponseWriter, r *http.Request, id domain.Identity, h *tenant.Handle) {
	f(w, r, id, h)
}

// TokenAuthenticator validates a presented bearer token.
type TokenAuthenticator interface {
	AuthenticateToken(ctx context.Context, raw string) service.Result
}

// Authorizer decides whether an identity may perform an operation.
type Authorizer interface {
	Authorize(ctx context.Context, id domain.Identity, op service.Operation) service.Decision
}

// TenantResolver checks out a connection to a tenant partition.
type TenantResolver interface {
	Resolve(ctx context.Context, id domain.TenantID) (*tenant.Handle, error)
}

// Pipeline runs every protected request through authentication,
// authorization and tenant resolution, in that order.
type Pipeline struct {
	Authn   TokenAuthenticator
	Authz   Authorizer
	Tenants TenantResolver
}

// RequestToken returns the bearer token from the Authorization header or,
// failing that, the "token" query parameter.
func RequestToken(r *http.Request) string {
	if tok := httpx.BearerToken(r); tok != "" {
		return tok
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

// Public wraps an allow-listed operation. It only short-circuits preflight.
// Wrapping an operation that is not allow-listed is a programming error.
func (p *Pipeline) Public(op service.Operation, next http.Handler) http.Handler {
	if !service.IsPublic(op) {
		panic(fmt.Sprintf("gateway: operation %q is not allow-listed", op))
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Handle wraps a protected operation. Middlewares in mws run after the
// caller is authenticated and authorized, so they can key on the identity
// (see httpx.RateLimitByUser); they run before the tenant is resolved.
func (p *Pipeline) Handle(op service.Operation, next TenantHandler, mws ...httpx.Middleware) http.Handler {
	serve := httpx.Chain(p.serveTenant(next), mws...)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		ctx := r.Context()
		l := slogx.FromContext(ctx)

		res := p.Authn.AuthenticateToken(ctx, RequestToken(r))
		if !res.OK() {
			attrs := []any{slog.String("operation", string(op)), slog.String("state", res.State.String())}
			if res.Err != nil {
				attrs = append(attrs, slog.String("error", res.Err.Error()))
			}
			l.Info("request not authenticated", attrs...)
			gatewaysdk.ErrUnauthorized.WriteError(w)
			return
		}
		id := res.Identity

		if d := p.Authz.Authorize(ctx, id, op); !d.Allowed {
			metrics.AuthorizationDenialsTotal.WithLabelValues(string(op)).Inc()
			l.Warn("request denied",
				slog.String("operation", string(op)),
				slog.String("user_id", id.ID),
				slog.String("reason", d.Reason),
			)
			gatewaysdk.ErrForbidden.WriteError(w)
			return
		}

		ctx = httpx.WithUserID(ctx, id.ID)
		ctx = WithIdentity(ctx, id)
		ctx = slogx.With(ctx, "user_id", id.ID, "tenant_id", id.TenantID.String())

		serve.ServeHTTP(w, r.WithContext(ctx))
	})
}

// serveTenant resolves the tenant of the identity stored by Handle and
// hands the checked-out handle to next.
func (p *Pipeline) serveTenant(next TenantHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		l := slogx.FromContext(ctx)
		id, _ := IdentityFromContext(ctx)

		h, err := p.Tenants.Resolve(ctx, id.TenantID)
		if err != nil {
			if errors.Is(err, tenant.ErrUnknownTenant) {
				l.Warn("tenant not found", slog.String("tenant_id", id.TenantID.String()))
				gatewaysdk.ErrTenantNotFound.WriteError(w)
				return
			}
			l.Error("tenant resolution failed",
				slog.String("tenant_id", id.TenantID.String()),
				slog.String("error", err.Error()),
			)
			gatewaysdk.ErrServerError.WriteError(w)
			return
		}
		defer h.Release()

		next.ServeTenant(w, r.WithContext(WithHandle(ctx, h)), id, h)
	})
}
