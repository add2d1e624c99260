package service

import "errors"

// Validation and credential errors returned by AuthService. Handlers map
// these onto HTTP statuses; anything else is an internal error.
var (
	ErrMissingFields    = errors.New("email and password are required")
	ErrMissingEmail     = errors.New("email is required")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	// ErrInvalidCredentials covers unknown email, passwordless-only
	// account and wrong password alike. Collapsing the three cases keeps
	// login responses indistinguishable and enumeration-resistant.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailTaken = errors.New("user already exists")

	ErrTokenNotFound = errors.New("magic token not found")
	ErrTokenExpired  = errors.New("magic token expired")
	ErrTokenUsed     = errors.New("magic token already used")
)
