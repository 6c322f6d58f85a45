package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Err returns nil for an allow and ErrAuthorizationDenied otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == "" {
		return ErrAuthorizationDenied
	}
	return fmt.Errorf("%w: %s", ErrAuthorizationDenied, d.Reason)
}

// Policy decides whether an authenticated identity may perform op.
type Policy func(ctx context.Context, id domain.Identity, op Operation) Decision

// AllowAuthenticated admits any established identity.
func AllowAuthenticated(_ context.Context, id domain.Identity, _ Operation) Decision {
	if id.IsZero() {
		return Decision{Reason: "no identity"}
	}
	return Decision{Allowed: true}
}

// RequireRole admits identities holding role.
func RequireRole(role domain.Role) Policy {
	return func(ctx context.Context, id domain.Identity, op Operation) Decision {
		if d := AllowAuthenticated(ctx, id, op); !d.Allowed {
			return d
		}
		if id.Role != role {
			return Decision{Reason: fmt.Sprintf("%s requires role %s", op, role)}
		}
		return Decision{Allowed: true}
	}
}

// Authorizer applies a per-operation policy, falling back to Default.
type Authorizer struct {
	Default Policy

	mu       sync.RWMutex
	policies map[Operation]Policy
}

// NewAuthorizer returns an Authorizer whose default is AllowAuthenticated.
func NewAuthorizer() *Authorizer {
	return &Authorizer{Default: AllowAuthenticated, policies: make(map[Operation]Policy)}
}

// SetPolicy installs p for op.
func (a *Authorizer) SetPolicy(op Operation, p Policy) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.policies == nil {
		a.policies = make(map[Operation]Policy)
	}
	a.policies[op] = p
}

// Authorize evaluates the policy for op against id.
func (a *Authorizer) Authorize(ctx context.Context, id domain.Identity, op Operation) Decision {
	a.mu.RLock()
	p, ok := a.policies[op]
	a.mu.RUnlock()

	if !ok {
		p = a.Default
	}
	if p == nil {
		p = AllowAuthenticated
	}
	return p(ctx, id, op)
}
