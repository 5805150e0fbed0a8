package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/webcore/core/auth"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	t.Run("produces a verifiable bcrypt hash", func(t *testing.T) {
		t.Parallel()

		hash, err := auth.HashPassword("hunter2hunter2")
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2hunter2")))
		assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")))
	})

	t.Run("salting makes hashes unique", func(t *testing.T) {
		t.Parallel()

		first, err := auth.HashPassword("same-password")
		require.NoError(t, err)
		second, err := auth.HashPassword("same-password")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		t.Parallel()

		_, err := auth.HashPassword("")
		assert.Error(t, err)
	})
}
