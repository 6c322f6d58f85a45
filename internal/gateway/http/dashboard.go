package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/tenant"
	"github.com/aussiebroadwan/tenantgate/pkg/gatewaysdk"
	"github.com/aussiebroadwan/tenantgate/pkg/httpx"
	"github.com/aussiebroadwan/tenantgate/pkg/slogx"
	"github.com/jackc/pgx/v5/pgconn"
)

// dashboardTables are counted in every tenant partition.
var dashboardTables = []string{"job_roles", "role_levels", "employees"}

// DashboardHandler godoc
//
//	@Summary		Tenant dashboard
//	@Description	Counts rows in the caller's tenant partition. Tables that do not exist count as zero.
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	gatewaysdk.DashboardResponse	"row counts"
//	@Failure		401	{object}	gatewaysdk.APIError				"Unauthorized access"
//	@Failure		404	{object}	gatewaysdk.APIError				"Tenant not found"
//	@Failure		500	{object}	gatewaysdk.APIError				"Internal server error"
//	@Router			/api/dashboard [get].
func DashboardHandler(w http.ResponseWriter, r *http.Request, id domain.Identity, h *tenant.Handle) {
	ctx := r.Context()

	counts := make(map[string]int64, len(dashboardTables))
	for _, table := range dashboardTables {
		n, err := countRows(ctx, h, table)
		if err != nil {
			slogx.FromContext(ctx).Error("dashboard count failed",
				slog.String("table", table),
				slog.String("error", err.Error()),
			)
			gatewaysdk.ErrServerError.WriteError(w)
			return
		}
		counts[table] = n
	}

	httpx.WriteJSON(w, http.StatusOK, gatewaysdk.DashboardResponse{
		Success:  true,
		TenantID: id.TenantID.String(),
		Counts:   counts,
	})
}

func countRows(ctx context.Context, h *tenant.Handle, table string) (int64, error) {
	query, args, err := sq.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, err
	}

	var n int64
	if err := h.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		if isMissingTable(err) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

// isMissingTable recognises "undefined table" from Postgres and sqlite.
func isMissingTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01"
	}
	return strings.Contains(err.Error(), "no such table")
}
