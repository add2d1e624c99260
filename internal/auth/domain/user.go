package domain

import "time"

type User struct {
	ID           string
	Email        string // unique, stored case-sensitively
	PasswordHash string // bcrypt encoded; empty for passwordless-only accounts
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can authenticate by password.
func (u User) HasPassword() bool { return u.PasswordHash != "" }
