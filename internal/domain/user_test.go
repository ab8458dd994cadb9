package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates a valid user", func(t *testing.T) {
		user, err := NewUser("alice@example.com", "Alice", "correct horse battery")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Alice", user.Name)
		assert.Equal(t, "correct horse battery", user.Password)
		assert.Empty(t, user.HashedPassword)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("rejects an empty email", func(t *testing.T) {
		_, err := NewUser("", "Alice", "correct horse battery")
		assert.ErrorIs(t, err, ErrEmptyEmail)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		for _, email := range []string{"no-at-sign", "@example.com", "alice@", "alice@nodot", "alice@.com", "alice@com."} {
			_, err := NewUser(email, "Alice", "correct horse battery")
			assert.ErrorIs(t, err, ErrInvalidEmail, "email %q", email)
		}
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := NewUser("alice@example.com", "", "correct horse battery")
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("rejects a short password", func(t *testing.T) {
		_, err := NewUser("alice@example.com", "Alice", "seven77")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("rejects a password over bcrypt's limit", func(t *testing.T) {
		_, err := NewUser("alice@example.com", "Alice", strings.Repeat("p", 73))
		assert.ErrorIs(t, err, ErrPasswordTooLong)
	})

	t.Run("rejects an empty password", func(t *testing.T) {
		_, err := NewUser("alice@example.com", "Alice", "")
		assert.ErrorIs(t, err, ErrEmptyPassword)
	})
}

func TestUserValidate(t *testing.T) {
	t.Run("accepts a stored user with only a hash", func(t *testing.T) {
		user := &User{
			ID:             uuid.New(),
			Email:          "alice@example.com",
			Name:           "Alice",
			HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		}
		assert.NoError(t, user.Validate())
	})

	t.Run("rejects a user with neither password nor hash", func(t *testing.T) {
		user := &User{
			ID:    uuid.New(),
			Email: "alice@example.com",
			Name:  "Alice",
		}
		assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
	})

	t.Run("rejects a nil ID", func(t *testing.T) {
		user := &User{Email: "alice@example.com", Name: "Alice", Password: "correct horse battery"}
		assert.ErrorIs(t, user.Validate(), ErrEmptyUserID)
	})
}
