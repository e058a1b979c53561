package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/passvault/internal/server/migrations"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/secrets"
	"github.com/pressly/goose/v3"
)

const (
	dialectPostgres = "pgx"
	dialectSQLite   = "sqlite3"
)

// SQLRepositoryManager vends SQL-backed repositories sharing one *sql.DB
// and exposes a schema migration hook.
type SQLRepositoryManager struct {
	db      *sql.DB
	dialect string
}

func NewSQLRepositoryManager(db *sql.DB, dialect string) *SQLRepositoryManager {
	return &SQLRepositoryManager{db: db, dialect: dialect}
}

func (m *SQLRepositoryManager) Accounts() accounts.Repository {
	return accounts.NewSQLRepository(m.db)
}

func (m *SQLRepositoryManager) Secrets() secrets.Repository {
	return secrets.NewSQLRepository(m.db)
}

func (m *SQLRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the manager's database.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}
