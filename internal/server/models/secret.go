package models

import "time"

// Secret is one stored credential. The Secret field holds the protected
// (encrypted) form at rest; services unprotect it before handing it out.
type Secret struct {
	ID          string
	AccountID   string
	Description string
	Username    string
	Secret      string
	CreatedAt   time.Time
}
