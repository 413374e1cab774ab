package repomanager

import (
	"context"
	"database/sql"

	"github.com/nuliana/getapet/internal/dbx"
	"github.com/nuliana/getapet/internal/server/repositories/accounts"
)

// InMemoryRepositoryManager vends a single shared in-memory account
// repository. The DBTX argument is ignored; there is no database.
type InMemoryRepositoryManager struct {
	accounts *accounts.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{accounts: accounts.NewInMemoryRepository()}
}

func (m *InMemoryRepositoryManager) Accounts(dbx.DBTX) accounts.Repository {
	return m.accounts
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}
