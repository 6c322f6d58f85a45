package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/metrics"
	"github.com/aussiebroadwan/tenantgate/pkg/slogx"
)

// State is where a request stands in authentication.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
	Rejected
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result is the outcome of one authentication attempt. Token is set only
// when a new token was issued (password login).
type Result struct {
	State    State
	Identity domain.Identity
	Token    *Token
	Err      error
}

// OK reports whether the attempt produced an identity.
func (r Result) OK() bool { return r.State == Authenticated }

// Authenticator turns credentials or a bearer token into an Identity.
type Authenticator struct {
	Verifier *CredentialVerifier
	Codec    *TokenCodec
	Mappings *MappingService
}

// Login verifies a username and password, applies any company mapping and
// issues a token bound to the resulting tenant.
func (a *Authenticator) Login(ctx context.Context, username, password string) Result {
	l := slogx.FromContext(ctx)

	id, err := a.Verifier.Verify(ctx, username, password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) && !errors.Is(err, ErrMissingCredentials) {
			l.Error("credential verification failed", slog.String("error", err.Error()))
		}
		return a.reject(metrics.MethodPassword, err)
	}

	id = a.Mappings.Apply(ctx, id)

	tok, err := a.Codec.Issue(id)
	if err != nil {
		l.Error("token issue failed", slog.String("user_id", id.ID), slog.String("error", err.Error()))
		return a.reject(metrics.MethodPassword, err)
	}

	l.Info("login succeeded",
		slog.String("user_id", id.ID),
		slog.String("tenant_id", id.TenantID.String()),
	)
	metrics.AuthAttemptsTotal.WithLabelValues(metrics.MethodPassword, "success").Inc()
	return Result{State: Authenticated, Identity: id, Token: &tok}
}

// AuthenticateToken validates a presented token. No token is re-issued.
func (a *Authenticator) AuthenticateToken(_ context.Context, raw string) Result {
	if raw == "" {
		metrics.AuthAttemptsTotal.WithLabelValues(metrics.MethodToken, "missing").Inc()
		return Result{State: Unauthenticated, Err: ErrTokenInvalid}
	}

	id, err := a.Codec.Parse(raw)
	if err != nil {
		return a.reject(metrics.MethodToken, err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues(metrics.MethodToken, "success").Inc()
	return Result{State: Authenticated, Identity: id}
}

func (a *Authenticator) reject(method string, err error) Result {
	metrics.AuthAttemptsTotal.WithLabelValues(method, outcome(err)).Inc()
	return Result{State: Rejected, Err: err}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return "missing"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenInvalid):
		return "invalid_token"
	default:
		return "error"
	}
}
