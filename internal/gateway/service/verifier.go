package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/store"
	"github.com/aussiebroadwan/tenantgate/pkg/cryptox"
	"github.com/aussiebroadwan/tenantgate/pkg/slogx"
)

// CredentialVerifier checks a username and password against the default
// identity store. It never writes.
type CredentialVerifier struct {
	Users store.Users
}

// Verify returns the stored identity when password matches the stored hash
// for username. Unknown users, disabled users and mismatches all collapse
// into ErrInvalidCredentials; only store failures surface as other errors.
func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (domain.Identity, error) {
	if username == "" || password == "" {
		return domain.Identity{}, ErrMissingCredentials
	}

	user, err := v.Users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn the same time as a real comparison.
			cryptox.DummyVerify(password)
			return domain.Identity{}, ErrInvalidCredentials
		}
		return domain.Identity{}, fmt.Errorf("load user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			slogx.FromContext(ctx).Warn("stored password hash unusable",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
		return domain.Identity{}, ErrInvalidCredentials
	}

	if !user.Active {
		slogx.FromContext(ctx).Info("login attempt for inactive user", slog.String("user_id", user.ID))
		return domain.Identity{}, ErrInvalidCredentials
	}

	id := user.Identity()
	if id.TenantID == "" {
		id.TenantID = domain.DefaultTenant
	}
	return id, nil
}
