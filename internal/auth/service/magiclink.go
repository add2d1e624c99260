package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/gatehouse/gatehouse/internal/auth/domain"
	"github.com/gatehouse/gatehouse/internal/auth/store"
	"github.com/gatehouse/gatehouse/pkg/cryptox"
	"github.com/gatehouse/gatehouse/pkg/idx"
	"github.com/gatehouse/gatehouse/pkg/slogx"
)

// MagicLinkSender delivers a redemption URL to an email address. Delivery
// itself (SMTP, a queue, a provider API) lives behind this interface.
type MagicLinkSender interface {
	Send(ctx context.Context, email, redemptionURL string) error
}

// LogSender writes the redemption URL to the log instead of sending mail.
// Useful for development and as the default until a real sender is wired.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, email, redemptionURL string) error {
	s.Logger.Info("magic link issued",
		slog.String("email", email),
		slog.String("url", redemptionURL),
	)
	return nil
}

// RequestMagicLink generates and persists a single-use login token for the
// account registered under email, then hands the redemption URL to the
// configured sender.
//
// Whether or not the email is registered the caller gets a nil error, so
// the HTTP response is identical in both cases and the endpoint cannot be
// used to probe for accounts. Only a registered email actually produces a
// token.
func (s *AuthService) RequestMagicLink(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	if email == "" {
		return ErrMissingEmail
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("magic link requested for unregistered email")
			return nil
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return err
	}

	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate magic token", slog.Any("error", err))
		return err
	}

	ttl := s.MagicTokenTTL
	if ttl <= 0 {
		ttl = domain.DefaultMagicTokenTTL
	}

	token := domain.MagicToken{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(raw),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(ttl),
		Used:      false,
	}

	if err := s.Store.MagicTokens().CreateMagicToken(ctx, token); err != nil {
		log.Error("failed to persist magic token", slog.Any("error", err))
		return err
	}

	if err := s.Sender.Send(ctx, email, s.redemptionURL(raw)); err != nil {
		log.Error("failed to deliver magic link", slog.Any("error", err))
		return err
	}

	log.Info("magic link issued", slog.String("user_id", user.ID))
	return nil
}

// RedeemMagicLink validates a raw magic-token value and, on success,
// consumes it and returns the owning user with a signed session token.
//
// The consume step is a guarded UPDATE at the store, so two concurrent
// redemptions of the same token resolve to one success and one
// ErrTokenUsed.
func (s *AuthService) RedeemMagicLink(ctx context.Context, rawToken string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	if rawToken == "" {
		return domain.User{}, "", ErrTokenNotFound
	}

	fingerprint := cryptox.FingerprintToken(rawToken)
	token, err := s.Store.MagicTokens().GetMagicTokenByHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrTokenNotFound
		}
		log.Error("failed to fetch magic token", slog.Any("error", err))
		return domain.User{}, "", err
	}

	if time.Now().UTC().After(token.ExpiresAt) {
		return domain.User{}, "", ErrTokenExpired
	}
	if token.Used {
		return domain.User{}, "", ErrTokenUsed
	}

	consumed, err := s.Store.MagicTokens().ConsumeMagicToken(ctx, token.ID)
	if err != nil {
		log.Error("failed to consume magic token", slog.Any("error", err))
		return domain.User{}, "", err
	}
	if !consumed {
		// Someone else redeemed it between our read and the update.
		return domain.User{}, "", ErrTokenUsed
	}

	user, err := s.Store.Users().GetUserByID(ctx, token.UserID)
	if err != nil {
		log.Error("failed to fetch magic token owner", slog.Any("error", err))
		return domain.User{}, "", err
	}

	session, err := s.issueSession(user.ID)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Info("magic link redeemed", slog.String("user_id", user.ID))
	return user, session, nil
}

func (s *AuthService) redemptionURL(rawToken string) string {
	return s.BaseURL + "/auth/verify?token=" + url.QueryEscape(rawToken)
}
