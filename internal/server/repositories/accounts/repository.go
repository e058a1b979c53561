package accounts

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// NormalizeUsername is the comparison key for usernames. It folds Unicode
// case in Go so every backend agrees on what counts as a duplicate.
func NormalizeUsername(username string) string {
	return strings.ToLower(username)
}

// Repository stores accounts. Username lookups are case-insensitive and
// usernames are unique under that comparison.
type Repository interface {
	// FindByUsername returns common.ErrorNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	Exists(ctx context.Context, username string) (bool, error)
	// Create returns common.ErrorConflict when the username is taken.
	Create(ctx context.Context, account *models.Account) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}
