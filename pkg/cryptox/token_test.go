package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 100 {
			token, err := GenerateToken(TokenSize256)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			_, dup := seen[token]
			require.False(t, dup)
			seen[token] = struct{}{}
		}
	})

	t.Run("token length scales with entropy size", func(t *testing.T) {
		small, err := GenerateToken(TokenSize128)
		require.NoError(t, err)
		large, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		require.Greater(t, len(large), len(small))
	})
}

func TestFingerprintToken(t *testing.T) {
	token, err := GenerateToken(TokenSize256)
	require.NoError(t, err)

	fp := FingerprintToken(token)
	require.NotEmpty(t, fp)
	require.NotEqual(t, token, fp)

	// Deterministic, so a stored fingerprint can be matched later.
	require.Equal(t, fp, FingerprintToken(token))

	other, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, fp, FingerprintToken(other))
}
