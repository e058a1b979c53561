package accounts

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/migrations"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))
	return db
}

func newAccount(username string) *models.Account {
	return &models.Account{
		ID:                   uuid.NewString(),
		Username:             username,
		PasswordHash:         "100000.c2FsdA==.aGFzaA==",
		RequireSecondaryAuth: true,
		CreatedAt:            time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestRepositoryContract(t *testing.T) {
	impls := map[string]func(t *testing.T) Repository{
		"memory": func(*testing.T) Repository { return NewMemoryRepository() },
		"sqlite": func(t *testing.T) Repository { return NewSQLRepository(newSQLiteDB(t)) },
	}

	for name, newRepo := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("create and find case-insensitively", func(t *testing.T) {
				repo := newRepo(t)
				a := newAccount("Alice")
				require.NoError(t, repo.Create(ctx, a))

				got, err := repo.FindByUsername(ctx, "aLiCe")
				require.NoError(t, err)
				assert.Equal(t, a.ID, got.ID)
				assert.Equal(t, "Alice", got.Username)
				assert.Equal(t, a.PasswordHash, got.PasswordHash)
				assert.True(t, got.RequireSecondaryAuth)
				assert.True(t, a.CreatedAt.Equal(got.CreatedAt))

				ok, err := repo.Exists(ctx, "ALICE")
				require.NoError(t, err)
				assert.True(t, ok)
			})

			t.Run("missing", func(t *testing.T) {
				repo := newRepo(t)
				_, err := repo.FindByUsername(ctx, "ghost")
				assert.ErrorIs(t, err, common.ErrorNotFound)

				ok, err := repo.Exists(ctx, "ghost")
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("duplicate username differing in case", func(t *testing.T) {
				repo := newRepo(t)
				require.NoError(t, repo.Create(ctx, newAccount("bob")))
				err := repo.Create(ctx, newAccount("BOB"))
				assert.ErrorIs(t, err, common.ErrorConflict)

				require.NoError(t, repo.Create(ctx, newAccount("ÉLODIE")))
				assert.ErrorIs(t, repo.Create(ctx, newAccount("élodie")), common.ErrorConflict)

				got, err := repo.FindByUsername(ctx, "Élodie")
				require.NoError(t, err)
				assert.Equal(t, "ÉLODIE", got.Username)
			})

			t.Run("concurrent creates of one username", func(t *testing.T) {
				repo := newRepo(t)
				names := []string{"admin", "ADMIN", "Admin"}
				const n = 12

				var wg sync.WaitGroup
				errs := make(chan error, n)
				for i := 0; i < n; i++ {
					wg.Add(1)
					go func(name string) {
						defer wg.Done()
						errs <- repo.Create(ctx, newAccount(name))
					}(names[i%len(names)])
				}
				wg.Wait()
				close(errs)

				var ok, conflicts int
				for err := range errs {
					switch {
					case err == nil:
						ok++
					case errors.Is(err, common.ErrorConflict):
						conflicts++
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}
				assert.Equal(t, 1, ok)
				assert.Equal(t, n-1, conflicts)
			})

			t.Run("update hash", func(t *testing.T) {
				repo := newRepo(t)
				a := newAccount("carol")
				a.PasswordHash = "legacy-plain"
				require.NoError(t, repo.Create(ctx, a))

				require.NoError(t, repo.UpdatePasswordHash(ctx, a.ID, "100000.bmV3.aGFzaA=="))
				got, err := repo.FindByUsername(ctx, "carol")
				require.NoError(t, err)
				assert.Equal(t, "100000.bmV3.aGFzaA==", got.PasswordHash)

				assert.ErrorIs(t, repo.UpdatePasswordHash(ctx, "nope", "x"), common.ErrorNotFound)
			})
		})
	}
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	a := newAccount("dave")
	require.NoError(t, repo.Create(context.Background(), a))

	a.PasswordHash = "mutated"
	got, err := repo.FindByUsername(context.Background(), "dave")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", got.PasswordHash)

	got.Username = "changed"
	again, _ := repo.FindByUsername(context.Background(), "dave")
	assert.Equal(t, "dave", again.Username)
}
