package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/store"
	"github.com/aussiebroadwan/tenantgate/pkg/slogx"
)

// MappingService re-homes users into another tenant according to their
// active company mapping for one external system.
type MappingService struct {
	Mappings   store.CompanyMappings
	SystemType string
}

// Apply returns id with its tenant replaced by the mapped tenant, if an
// active mapping exists. Lookup failures keep the stored tenant.
func (s *MappingService) Apply(ctx context.Context, id domain.Identity) domain.Identity {
	if s == nil || s.Mappings == nil || s.SystemType == "" {
		return id
	}
	if id.ID == "" || id.Username == "" {
		return id
	}

	l := slogx.FromContext(ctx)
	m, err := s.Mappings.GetActiveMapping(ctx, id.ID, id.Username, s.SystemType)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return id
	case err != nil:
		l.Error("company mapping lookup failed",
			slog.String("user_id", id.ID),
			slog.String("system_type", s.SystemType),
			slog.String("error", err.Error()),
		)
		return id
	}

	if m.MappedTenantID == "" || m.MappedTenantID == id.TenantID {
		return id
	}

	l.Info("applied company mapping",
		slog.String("user_id", id.ID),
		slog.String("from_tenant", id.TenantID.String()),
		slog.String("to_tenant", m.MappedTenantID.String()),
	)
	id.TenantID = m.MappedTenantID
	return id
}
