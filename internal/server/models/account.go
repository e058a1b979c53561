package models

import "time"

// Account is a registered vault user. PasswordHash holds either an encoded
// PBKDF2 hash or, for accounts created before hashing existed, the raw
// password. The latter is replaced with a hash on the next successful login.
type Account struct {
	ID                   string
	Username             string
	PasswordHash         string
	RequireSecondaryAuth bool
	CreatedAt            time.Time
}
