// Package repomanager selects and wires the storage backend: process memory,
// PostgreSQL (pgx) or SQLite (modernc), chosen by the shape of the DSN.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/passvault/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/secrets"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type RepositoryManager interface {
	Accounts() accounts.Repository
	Secrets() secrets.Repository
	Ping(ctx context.Context) error
	Close() error
}

// Backend names a storage implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

// ParseDSN maps a DSN to its backend and the string to hand to the driver.
// An empty DSN selects memory storage.
func ParseDSN(dsn string) (Backend, string, error) {
	switch {
	case strings.TrimSpace(dsn) == "":
		return BackendMemory, "", nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return BackendPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite:"):
		return BackendSQLite, withForeignKeys(strings.TrimPrefix(dsn, "sqlite:")), nil
	case strings.HasPrefix(dsn, "file:"):
		return BackendSQLite, withForeignKeys(dsn), nil
	default:
		return "", "", fmt.Errorf("unsupported database dsn scheme: %q", dsn)
	}
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// NewRepositoryManager opens the backend selected by dsn and, for SQL
// backends, verifies connectivity and applies migrations.
func NewRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {
	backend, driverDSN, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendMemory:
		return NewMemoryRepositoryManager(), nil
	case BackendPostgres:
		return openSQL(ctx, "pgx", driverDSN, dialectPostgres)
	default:
		return openSQL(ctx, "sqlite", driverDSN, dialectSQLite)
	}
}

func openSQL(ctx context.Context, driver, dsn, dialect string) (RepositoryManager, error) {
	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if dialect == dialectSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := NewSQLRepositoryManager(db, dialect)
	if err := m.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	return m, nil
}
