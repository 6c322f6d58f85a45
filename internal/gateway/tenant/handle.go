package tenant

import (
	"context"
	"database/sql"
	"sync"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
)

// Handle is one request's checked-out connection to a tenant partition.
// Release returns it; calling Release more than once is harmless.
type Handle struct {
	tenant domain.TenantID
	conn   *sql.Conn
	pool   *pool

	once sync.Once
}

func newHandle(id domain.TenantID, conn *sql.Conn, p *pool) *Handle {
	return &Handle{tenant: id, conn: conn, pool: p}
}

// TenantID is the partition this handle is bound to.
func (h *Handle) TenantID() domain.TenantID { return h.tenant }

// Conn exposes the underlying connection.
func (h *Handle) Conn() *sql.Conn { return h.conn }

func (h *Handle) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return h.conn.ExecContext(ctx, query, args...)
}

func (h *Handle) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return h.conn.QueryContext(ctx, query, args...)
}

func (h *Handle) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return h.conn.QueryRowContext(ctx, query, args...)
}

// Release returns the connection and drops the pool reference.
func (h *Handle) Release() {
	h.once.Do(func() {
		_ = h.conn.Close()
		if h.pool != nil {
			h.pool.release()
		}
	})
}
