package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	t.Run("hash_and_compare", func(t *testing.T) {
		hashed, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)
		require.NotEmpty(t, hashed)

		require.NoError(t, hasher.Compare(hashed, "correct horse battery staple"))
		require.Error(t, hasher.Compare(hashed, "wrong password"))
	})

	t.Run("hashes_are_salted", func(t *testing.T) {
		first, err := hasher.Hash("password")
		require.NoError(t, err)

		second, err := hasher.Hash("password")
		require.NoError(t, err)

		require.NotEqual(t, first, second)
	})

	t.Run("long_passwords_fully_significant", func(t *testing.T) {
		// bcrypt alone truncates past 72 bytes, the sha256 step must not
		long := strings.Repeat("a", 80)
		hashed, err := hasher.Hash(long)
		require.NoError(t, err)

		require.NoError(t, hasher.Compare(hashed, long))
		require.Error(t, hasher.Compare(hashed, long+"b"))
	})
}
