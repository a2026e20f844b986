package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox-test")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestHashPassword(t *testing.T) {
	t.Run("produces a PHC encoded argon2id hash", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple 1!")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
		require.NotContains(t, hash, "correct horse")
	})

	t.Run("same password hashes differently each time", func(t *testing.T) {
		first, err := HashPassword("hunter2hunter2!")
		require.NoError(t, err)
		second, err := HashPassword("hunter2hunter2!")
		require.NoError(t, err)
		require.NotEqual(t, first, second)
	})
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-Passw0rd!")
	require.NoError(t, err)

	t.Run("accepts the original password", func(t *testing.T) {
		require.NoError(t, VerifyPassword("s3cret-Passw0rd!", hash))
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		err := VerifyPassword("s3cret-Passw0rd?", hash)
		require.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("rejects malformed hashes", func(t *testing.T) {
		for _, encoded := range []string{
			"",
			"plaintext",
			"$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
			"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
			"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		} {
			err := VerifyPassword("whatever", encoded)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrPasswordMismatch)
		}
	})
}

func TestPepperPersists(t *testing.T) {
	// Two reads of the pepper within a process must agree, otherwise
	// hashes created earlier would stop verifying.
	require.Equal(t, GetPepper(), GetPepper())
	require.NotEmpty(t, GetPepper())
}
