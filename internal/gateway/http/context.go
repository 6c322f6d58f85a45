package http

import (
	"context"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/tenant"
)

type ctxKey int

const (
	ctxKeyIdentity ctxKey = iota
	ctxKeyHandle
)

// WithIdentity records the authenticated caller on ctx.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFromContext returns the caller set by the pipeline.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(domain.Identity)
	return id, ok && !id.IsZero()
}

// WithHandle records the request's tenant handle on ctx.
func WithHandle(ctx context.Context, h *tenant.Handle) context.Context {
	return context.WithValue(ctx, ctxKeyHandle, h)
}

// HandleFromContext returns the tenant handle set by the pipeline.
func HandleFromContext(ctx context.Context) (*tenant.Handle, bool) {
	h, ok := ctx.Value(ctxKeyHandle).(*tenant.Handle)
	return h, ok && h != nil
}
