package tenant

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Connector opens the pooled database for one tenant partition. The
// returned pool must be reachable; ctx bounds the attempt.
type Connector interface {
	Connect(ctx context.Context, id domain.TenantID, target Target) (*sql.DB, error)
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc func(ctx context.Context, id domain.TenantID, target Target) (*sql.DB, error)

func (f ConnectorFunc) Connect(ctx context.Context, id domain.TenantID, target Target) (*sql.DB, error) {
	return f(ctx, id, target)
}

// SQLConnector opens sqlite and Postgres partitions through database/sql.
type SQLConnector struct{}

func (SQLConnector) Connect(ctx context.Context, id domain.TenantID, target Target) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch target.Driver {
	case DriverSQLite:
		db, err = sql.Open("sqlite", target.DSN)
	case DriverPostgres:
		var cfg *pgx.ConnConfig
		cfg, err = pgx.ParseConfig(target.DSN)
		if err == nil {
			db = stdlib.OpenDB(*cfg)
		}
	default:
		return nil, fmt.Errorf("tenant %s: unsupported driver %q", id, target.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("tenant %s: open: %w", id, err)
	}

	if target.MaxOpenConns > 0 {
		db.SetMaxOpenConns(target.MaxOpenConns)
	}
	if target.MaxIdleConns > 0 {
		db.SetMaxIdleConns(target.MaxIdleConns)
	}
	if target.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(target.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("tenant %s: ping: %w", id, err)
	}
	return db, nil
}
