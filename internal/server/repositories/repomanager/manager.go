package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/eclinic/internal/dbx"
	"github.com/dmitrijs2005/eclinic/internal/server/repositories/users"
)

// RepositoryManager vends SQL-backed repositories bound to a DBTX, so the
// same repository can run against a pool or inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
