package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Run("produces hex of the requested size", func(t *testing.T) {
		token, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		require.Len(t, token, TokenSize256*2)

		raw, err := hex.DecodeString(token)
		require.NoError(t, err)
		require.Len(t, raw, TokenSize256)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 100 {
			token, err := GenerateToken(TokenSize256)
			require.NoError(t, err)
			_, dup := seen[token]
			require.False(t, dup, "token generated twice")
			seen[token] = struct{}{}
		}
	})

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := GenerateToken(0)
		require.Error(t, err)

		_, err = GenerateToken(-1)
		require.Error(t, err)
	})
}

func TestFingerprintToken(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		require.Equal(t, FingerprintToken("abc"), FingerprintToken("abc"))
	})

	t.Run("differs per input", func(t *testing.T) {
		require.NotEqual(t, FingerprintToken("abc"), FingerprintToken("abd"))
	})

	t.Run("does not reveal the token", func(t *testing.T) {
		token, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		require.NotContains(t, FingerprintToken(token), token)
	})
}
