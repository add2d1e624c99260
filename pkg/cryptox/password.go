package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt work factor used for new hashes. Each
// increment doubles the cost of a brute-force attempt.
const PasswordHashCost = 10

// HashPassword hashes a plaintext password with bcrypt using a random
// per-call salt. The salt and cost are embedded in the returned string.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
// A mismatch returns (false, nil); only a malformed hash produces an error.
// The underlying comparison does not leak how many prefix bytes matched.
func VerifyPassword(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
