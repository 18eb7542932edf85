package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/eclinic/internal/dbx"
	"github.com/dmitrijs2005/eclinic/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/eclinic/internal/server/repositories/users"
)

// UserStore hands out users repositories. InTx runs fn in a single
// transaction when the backend has them.
type UserStore interface {
	Users() users.Repository
	InTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error
}

type sqlUserStore struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSQLUserStore(db *sql.DB, rm repomanager.RepositoryManager) UserStore {
	return &sqlUserStore{db: db, repomanager: rm}
}

func (s *sqlUserStore) Users() users.Repository {
	return s.repomanager.Users(s.db)
}

func (s *sqlUserStore) InTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, s.repomanager.Users(tx))
	})
}

type memoryUserStore struct {
	repo users.Repository
}

func NewMemoryUserStore(repo users.Repository) UserStore {
	return &memoryUserStore{repo: repo}
}

func (s *memoryUserStore) Users() users.Repository { return s.repo }

func (s *memoryUserStore) InTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	return fn(ctx, s.repo)
}
