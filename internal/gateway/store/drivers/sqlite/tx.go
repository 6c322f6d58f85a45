package sqlite

import (
	"database/sql"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Users() store.Users                     { return &usersRepo{db: t.tx} }
func (t *txStore) CompanyMappings() store.CompanyMappings { return &mappingsRepo{db: t.tx} }
