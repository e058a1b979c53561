// Package accounts provides account storage backed by SQL (PostgreSQL or
// SQLite) or by process memory.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
// Queries use $n placeholders, which both pgx and modernc sqlite accept.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT id, username, password_hash, require_secondary_auth, created_at FROM accounts
		 WHERE username_normalized = $1
		 `

	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, NormalizeUsername(username)).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.RequireSecondaryAuth, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *SQLRepository) Exists(ctx context.Context, username string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE username_normalized = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, NormalizeUsername(username)).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *SQLRepository) Create(ctx context.Context, a *models.Account) error {
	query :=
		`INSERT INTO accounts (id, username, username_normalized, password_hash, require_secondary_auth, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Username, NormalizeUsername(a.Username), a.PasswordHash, a.RequireSecondaryAuth, a.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *SQLRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	query :=
		`UPDATE accounts SET password_hash = $1
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
