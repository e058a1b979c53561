// Package services contains server-side business logic: account registration
// and login (AuthService) and owner-scoped secret management (VaultService).
package services

import (
	"github.com/dmitrijs2005/passvault/internal/passgen"
)

// PasswordHasher hashes login passwords into a self-describing encoded form.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

// TokenIssuer mints bearer tokens for an authenticated account.
type TokenIssuer interface {
	Issue(accountID, username string) (string, error)
}

// SecretProtector encrypts secret values at rest. Unprotect never fails; it
// returns its input when the value is not a protected token.
type SecretProtector interface {
	Protect(plaintext string) (string, error)
	Unprotect(token string) string
}

// PasswordGenerator synthesizes random passwords.
type PasswordGenerator interface {
	Generate(opts passgen.Options) (string, error)
}

// Auth event names reported to an EventRecorder.
const (
	EventRegistered             = "registered"
	EventRegisterConflict       = "register_conflict"
	EventLoginOK                = "login_ok"
	EventLoginUnauthorized      = "login_unauthorized"
	EventLoginSecondaryRequired = "login_secondary_required"
	EventLegacyUpgraded         = "legacy_upgraded"
)

// EventRecorder receives auth outcomes, typically for metrics.
type EventRecorder interface {
	RecordAuthEvent(event string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAuthEvent(string) {}
