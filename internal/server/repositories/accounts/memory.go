package accounts

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// MemoryRepository keeps accounts in process memory, keyed by
// NormalizeUsername. Returned values are copies.
type MemoryRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*models.Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUsername: make(map[string]*models.Account)}
}

func (r *MemoryRepository) FindByUsername(_ context.Context, username string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byUsername[NormalizeUsername(username)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *a
	return &c, nil
}

func (r *MemoryRepository) Exists(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byUsername[NormalizeUsername(username)]
	return ok, nil
}

func (r *MemoryRepository) Create(_ context.Context, a *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := NormalizeUsername(a.Username)
	if _, ok := r.byUsername[k]; ok {
		return common.ErrorConflict
	}
	c := *a
	r.byUsername[k] = &c
	return nil
}

func (r *MemoryRepository) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.byUsername {
		if a.ID == id {
			a.PasswordHash = passwordHash
			return nil
		}
	}
	return common.ErrorNotFound
}
