package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// TokenSize256 is the byte length for tokens carrying 256 bits of entropy.
// This is the size used for magic-link tokens (64 hex chars on the wire).
const TokenSize256 = 32

// GenerateToken creates a cryptographically secure random token of the given
// byte length, returned hex-encoded. Returns an error only if the system
// entropy source fails.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token as
// a base64url string. Only fingerprints are stored in the database, so a
// leaked table does not yield redeemable tokens.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
