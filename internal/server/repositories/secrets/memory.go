package secrets

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// MemoryRepository keeps secrets in process memory with a per-owner index.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.Secret
	byOwner map[string]map[string]struct{}
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.Secret),
		byOwner: make(map[string]map[string]struct{}),
	}
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]*models.Secret, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byOwner[ownerID]
	result := make([]*models.Secret, 0, len(ids))
	for id := range ids {
		c := *r.byID[id]
		result = append(result, &c)
	}

	// Newest first; equal timestamps fall back to id, as in the SQL store.
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return result, nil
}

func (r *MemoryRepository) Create(_ context.Context, s *models.Secret) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[s.ID]; ok {
		return common.ErrorConflict
	}

	c := *s
	r.byID[s.ID] = &c
	owned, ok := r.byOwner[s.AccountID]
	if !ok {
		owned = make(map[string]struct{})
		r.byOwner[s.AccountID] = owned
	}
	owned[s.ID] = struct{}{}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok || s.AccountID != ownerID {
		return common.ErrorNotFound
	}

	delete(r.byID, id)
	delete(r.byOwner[ownerID], id)
	if len(r.byOwner[ownerID]) == 0 {
		delete(r.byOwner, ownerID)
	}
	return nil
}
