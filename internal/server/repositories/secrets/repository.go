package secrets

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// Repository stores secrets. Every read and delete is scoped to an owner; a
// record owned by someone else is indistinguishable from a missing one.
type Repository interface {
	// ListByOwner returns the owner's secrets, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Secret, error)
	// Create returns common.ErrorUnauthorized when the store knows the owner
	// account does not exist.
	Create(ctx context.Context, secret *models.Secret) error
	// Delete returns common.ErrorNotFound unless a row with id owned by
	// ownerID was removed.
	Delete(ctx context.Context, id, ownerID string) error
}
