package domain_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanternhq/lantern-api/internal/domain"
)

const validPassword = "correct-horse-battery"

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		t.Parallel()

		user, err := domain.NewUser("user@example.com", validPassword)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "user@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsVerified)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	t.Run("invalid inputs", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			email    string
			password string
			wantErr  error
		}{
			{"empty email", "", validPassword, domain.ErrEmptyEmail},
			{"malformed email", "not-an-email", validPassword, domain.ErrInvalidEmail},
			{"missing domain", "user@", validPassword, domain.ErrInvalidEmail},
			{"short password", "user@example.com", "short", domain.ErrPasswordTooShort},
			{
				"long password",
				"user@example.com",
				strings.Repeat("a", domain.MaxPasswordLength+1),
				domain.ErrPasswordTooLong,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				_, err := domain.NewUser(tt.email, tt.password)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})
}

func TestUser_Validate(t *testing.T) {
	t.Parallel()

	t.Run("stored user with hash only", func(t *testing.T) {
		t.Parallel()

		user := &domain.User{
			ID:             uuid.New(),
			Email:          "user@example.com",
			HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		}
		assert.NoError(t, user.Validate())
	})

	t.Run("no password at all", func(t *testing.T) {
		t.Parallel()

		user := &domain.User{
			ID:    uuid.New(),
			Email: "user@example.com",
		}
		assert.ErrorIs(t, user.Validate(), domain.ErrEmptyPassword)
	})

	t.Run("nil ID", func(t *testing.T) {
		t.Parallel()

		user := &domain.User{Email: "user@example.com", Password: validPassword}
		assert.ErrorIs(t, user.Validate(), domain.ErrEmptyUserID)
	})

	t.Run("username bounds", func(t *testing.T) {
		t.Parallel()

		user, err := domain.NewUser("user@example.com", validPassword)
		require.NoError(t, err)

		user.Username = "ab"
		assert.ErrorIs(t, user.Validate(), domain.ErrUsernameTooShort)

		user.Username = strings.Repeat("x", 51)
		assert.ErrorIs(t, user.Validate(), domain.ErrUsernameTooLong)

		user.Username = "johndoe"
		assert.NoError(t, user.Validate())
	})
}
