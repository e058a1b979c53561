package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/passvault/internal/passgen"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/accounts"
)

// fakeHasher encodes as "1.fake.<password>" so cryptox.IsEncoded accepts it.
type fakeHasher struct {
	hashErr     error
	verifyCalls int
	mu          sync.Mutex
}

func (h *fakeHasher) Hash(p string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "1.fake." + p, nil
}

func (h *fakeHasher) Verify(p, encoded string) bool {
	h.mu.Lock()
	h.verifyCalls++
	h.mu.Unlock()
	return encoded == "1.fake."+p
}

type fakeTokens struct {
	err      error
	issuedTo []string
}

func (f *fakeTokens) Issue(accountID, username string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.issuedTo = append(f.issuedTo, accountID)
	return "token-for-" + accountID, nil
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) RecordAuthEvent(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(e string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, got := range r.events {
		if got == e {
			n++
		}
	}
	return n
}

// flakyAccounts wraps a memory repo and injects errors per operation.
type flakyAccounts struct {
	*accounts.MemoryRepository
	findErr   error
	existsErr error
	createErr error
	updateErr error
}

func (f *flakyAccounts) FindByUsername(ctx context.Context, u string) (*models.Account, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.MemoryRepository.FindByUsername(ctx, u)
}

func (f *flakyAccounts) Exists(ctx context.Context, u string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.MemoryRepository.Exists(ctx, u)
}

func (f *flakyAccounts) Create(ctx context.Context, a *models.Account) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.MemoryRepository.Create(ctx, a)
}

func (f *flakyAccounts) UpdatePasswordHash(ctx context.Context, id, h string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.MemoryRepository.UpdatePasswordHash(ctx, id, h)
}

// reversingProtector is a visible, reversible stand-in for encryption.
type reversingProtector struct {
	err error
}

func (p reversingProtector) Protect(s string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "enc:" + reverse(s), nil
}

func (p reversingProtector) Unprotect(s string) string {
	if !strings.HasPrefix(s, "enc:") {
		return s
	}
	return reverse(strings.TrimPrefix(s, "enc:"))
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

type fixedGenerator struct {
	out  string
	err  error
	seen []passgen.Options
}

func (g *fixedGenerator) Generate(opts passgen.Options) (string, error) {
	g.seen = append(g.seen, opts)
	if g.err != nil {
		return "", g.err
	}
	return g.out, nil
}

var errBoom = errors.New("boom")
