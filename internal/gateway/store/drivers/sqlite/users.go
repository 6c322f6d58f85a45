package sqlite

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
)

var userColumns = []string{
	"id", "username", "password_hash", "display_name", "email",
	"role", "tenant_id", "active", "created_at", "updated_at",
}

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) getBy(ctx context.Context, where sq.Eq) (domain.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return domain.User{}, err
	}

	var (
		u              domain.User
		role, tenantID string
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &u.Email,
		&role, &tenantID, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.NormalizeRole(role)
	u.TenantID = domain.TenantID(tenantID)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getBy(ctx, sq.Eq{"id": id})
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getBy(ctx, sq.Eq{"username": username})
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	if u.TenantID == "" {
		u.TenantID = domain.DefaultTenant
	}

	query, args, err := psql.Insert("users").Columns(userColumns...).Values(
		u.ID, u.Username, u.PasswordHash, u.DisplayName, u.Email,
		string(domain.NormalizeRole(string(u.Role))), string(u.TenantID), u.Active, u.CreatedAt, u.UpdatedAt,
	).ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return mapConstraint(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	query, args, err := psql.Update("users").
		Set("password_hash", newHash).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	return expectOne(r.db.ExecContext(ctx, query, args...))
}

func (r *usersRepo) SetActive(ctx context.Context, userID string, active bool) error {
	query, args, err := psql.Update("users").
		Set("active", active).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	return expectOne(r.db.ExecContext(ctx, query, args...))
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	query, args, err := psql.Select("COUNT(*)").From("users").ToSql()
	if err != nil {
		return false, err
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}
