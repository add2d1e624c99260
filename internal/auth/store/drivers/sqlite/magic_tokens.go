package sqlite

import (
	"context"
	"time"

	"github.com/gatehouse/gatehouse/internal/auth/domain"
)

type magicTokensRepo struct {
	db dbtx
}

const magicTokenColumns = `id, token_hash, user_id, expires_at, used, created_at, updated_at`

func (r *magicTokensRepo) CreateMagicToken(ctx context.Context, t domain.MagicToken) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO magic_tokens (id, token_hash, user_id, expires_at, used, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.TokenHash, t.UserID, t.ExpiresAt, t.Used, t.CreatedAt, t.UpdatedAt)
	return mapConstraint(err)
}

func (r *magicTokensRepo) GetMagicTokenByHash(
	ctx context.Context,
	hash string,
) (domain.MagicToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+magicTokenColumns+` FROM magic_tokens WHERE token_hash = ?`, hash)

	var t domain.MagicToken
	err := row.Scan(&t.ID, &t.TokenHash, &t.UserID, &t.ExpiresAt, &t.Used, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.MagicToken{}, mapNotFound(err)
	}
	return t, nil
}

// ConsumeMagicToken flips used from 0 to 1 in a single guarded UPDATE. The
// `used = 0` predicate makes the check-and-mark atomic at the database, so
// of two concurrent redemptions exactly one observes rows affected == 1.
func (r *magicTokensRepo) ConsumeMagicToken(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE magic_tokens SET used = 1, updated_at = ? WHERE id = ? AND used = 0`,
		time.Now().UTC(), id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *magicTokensRepo) DeleteExpiredMagicTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM magic_tokens WHERE expires_at < ?`, time.Now().UTC())
	return err
}
