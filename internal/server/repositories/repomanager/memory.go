package repomanager

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/secrets"
)

// MemoryRepositoryManager holds one in-memory store per table for the
// process lifetime. Nothing survives a restart.
type MemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
	secrets  *secrets.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		accounts: accounts.NewMemoryRepository(),
		secrets:  secrets.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Accounts() accounts.Repository { return m.accounts }

func (m *MemoryRepositoryManager) Secrets() secrets.Repository { return m.secrets }

func (m *MemoryRepositoryManager) Ping(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close() error { return nil }
