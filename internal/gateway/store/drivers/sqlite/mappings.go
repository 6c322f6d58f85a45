package sqlite

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
)

var mappingColumns = []string{
	"id", "user_id", "username", "mapped_tenant_id", "source_tenant_id",
	"system_type", "active", "deleted", "created_at", "updated_at",
}

type mappingsRepo struct {
	db dbtx
}

// GetActiveMapping matches on user id and username together, so a row
// written for one account never re-homes another that later takes its name.
func (r *mappingsRepo) GetActiveMapping(ctx context.Context, userID, username, systemType string) (domain.CompanyMapping, error) {
	query, args, err := psql.Select(mappingColumns...).
		From("user_company_mappings").
		Where(sq.Eq{
			"user_id":     userID,
			"username":    username,
			"system_type": systemType,
			"active":      true,
			"deleted":     false,
		}).
		OrderBy("updated_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return domain.CompanyMapping{}, err
	}

	var (
		m              domain.CompanyMapping
		mapped, source string
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&m.ID, &m.UserID, &m.Username, &mapped, &source,
		&m.SystemType, &m.Active, &m.Deleted, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return domain.CompanyMapping{}, mapNotFound(err)
	}
	m.MappedTenantID = domain.TenantID(mapped)
	m.SourceTenantID = domain.TenantID(source)
	return m, nil
}

func (r *mappingsRepo) CreateMapping(ctx context.Context, m domain.CompanyMapping) error {
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = m.CreatedAt
	}

	query, args, err := psql.Insert("user_company_mappings").Columns(mappingColumns...).Values(
		m.ID, m.UserID, m.Username, string(m.MappedTenantID), string(m.SourceTenantID),
		m.SystemType, m.Active, m.Deleted, m.CreatedAt, m.UpdatedAt,
	).ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return mapConstraint(err)
}

func (r *mappingsRepo) DeleteMapping(ctx context.Context, id string) error {
	query, args, err := psql.Update("user_company_mappings").
		Set("deleted", true).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "deleted": false}).
		ToSql()
	if err != nil {
		return err
	}
	return expectOne(r.db.ExecContext(ctx, query, args...))
}
