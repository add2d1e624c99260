package domain

import "time"

// MagicToken models a stored passwordless login token. Only the SHA-256
// fingerprint of the raw token value is persisted; the raw value travels in
// the emailed redemption link and is never written to the database.
type MagicToken struct {
	ID        string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	UserID    string
	ExpiresAt time.Time
	Used      bool // transitions false -> true exactly once
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultMagicTokenTTL is how long a magic token stays redeemable.
const DefaultMagicTokenTTL = time.Hour
