package repomanager

import (
	"context"
	"database/sql"

	"github.com/nuliana/getapet/internal/dbx"
	"github.com/nuliana/getapet/internal/server/repositories/accounts"
)

// RepositoryManager vends repositories bound to a DBTX and exposes a schema
// migration hook.
type RepositoryManager interface {
	Accounts(db dbx.DBTX) accounts.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
