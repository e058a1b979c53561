// Package secrets provides owner-scoped secret storage backed by SQL
// (PostgreSQL or SQLite) or by process memory.
package secrets

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Secret, error) {
	query := `SELECT id, account_id, description, username, secret, created_at FROM secrets
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select secrets: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Secret, 0)
	for rows.Next() {
		var item models.Secret
		if err := rows.Scan(
			&item.ID, &item.AccountID, &item.Description, &item.Username, &item.Secret, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) Create(ctx context.Context, s *models.Secret) error {
	query := `INSERT INTO secrets (id, account_id, description, username, secret, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.AccountID, s.Description, s.Username, s.Secret, s.CreatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: owner account does not exist", common.ErrorUnauthorized)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM secrets WHERE id = $1 AND account_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
