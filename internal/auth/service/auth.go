package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/gatehouse/gatehouse/internal/auth/domain"
	"github.com/gatehouse/gatehouse/internal/auth/store"
	"github.com/gatehouse/gatehouse/pkg/cryptox"
	"github.com/gatehouse/gatehouse/pkg/idx"
	"github.com/gatehouse/gatehouse/pkg/jwtx"
	"github.com/gatehouse/gatehouse/pkg/slogx"
)

const minPasswordLength = 6

// Requires a local part, an @ and a dotted domain. Deliberately loose
// beyond that; the mailbox is the real validator.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService orchestrates the three entry flows: password login, signup
// and magic-link authentication. It holds no mutable state of its own; the
// store and the signing secret are the only shared resources across
// concurrent requests.
type AuthService struct {
	Store  store.Store
	Signer jwtx.Signer
	Issuer string

	// SessionTTL bounds issued session credentials. Zero means
	// jwtx.DefaultSessionTTL.
	SessionTTL time.Duration

	// MagicTokenTTL bounds magic-link tokens. Zero means
	// domain.DefaultMagicTokenTTL.
	MagicTokenTTL time.Duration

	// BaseURL is the externally reachable origin used to build redemption
	// links, e.g. "https://app.example.com".
	BaseURL string

	// Sender delivers magic-link redemption URLs out of band.
	Sender MagicLinkSender
}

// Login authenticates a user by email and password and returns the user
// together with a freshly signed session token.
//
// Unknown email, an account without a password hash and a wrong password
// all return ErrInvalidCredentials so callers cannot tell them apart.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	if email == "" || password == "" {
		return domain.User{}, "", ErrMissingFields
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.User{}, "", err
	}

	if !user.HasPassword() {
		return domain.User{}, "", ErrInvalidCredentials
	}

	ok, err := cryptox.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		log.Error("stored password hash is malformed", slog.String("user_id", user.ID), slog.Any("error", err))
		return domain.User{}, "", err
	}
	if !ok {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issueSession(user.ID)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	return user, token, nil
}

// Signup validates input, creates a user with a hashed password and returns
// the user with a signed session token.
//
// The pre-check for an existing email gives a friendly Conflict for the
// common case; the unique index on users.email is the actual guard when two
// signups race, surfacing store.ErrAlreadyExists from the insert.
func (s *AuthService) Signup(ctx context.Context, email, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	if email == "" || password == "" {
		return domain.User{}, "", ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return domain.User{}, "", ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return domain.User{}, "", ErrPasswordTooShort
	}

	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return domain.User{}, "", ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return domain.User{}, "", err
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost the race to a concurrent signup with the same email.
			return domain.User{}, "", ErrEmailTaken
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, "", err
	}

	token, err := s.issueSession(user.ID)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Info("user signed up", slog.String("user_id", user.ID))
	return user, token, nil
}

// issueSession signs a session credential for the user with the configured
// TTL. The embedded expiry is what downstream verifiers enforce.
func (s *AuthService) issueSession(userID string) (string, error) {
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	claims := jwtx.NewSessionClaims(userID, s.Issuer, ttl, time.Now().UTC())
	return s.Signer.Sign(claims)
}
