package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
	"github.com/akarpov/portfolio-api/internal/testutil"
)

func Test_UserRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	createParams := repository.CreateUserParams{
		Email:          "alex@example.com",
		HashedPassword: "hashedpassword123",
		FirstName:      "Alex",
		LastName:       "Karpov",
	}

	t.Run("create user ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).User()

			user, err := r.CreateUser(t.Context(), createParams)

			require.NoError(t, err)
			assert.Equal(t, "alex@example.com", user.Email)
			assert.Equal(t, "Alex", user.FirstName)
			assert.Equal(t, models.RoleClient, user.Role, "role should default to client")
			assert.Empty(t, user.HashedPassword, "secrets should not be returned on create")
			assert.WithinDuration(t, time.Now(), user.CreatedAt, time.Second, "CreatedAt should be recent")
		})
	})

	t.Run("email stored lowercased and unique case insensitively", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).User()

			params := createParams
			params.Email = "Alex@Example.COM"
			user, err := r.CreateUser(t.Context(), params)
			require.NoError(t, err)
			assert.Equal(t, "alex@example.com", user.Email)

			params.Email = "ALEX@example.com"
			_, err = r.CreateUser(t.Context(), params)
			assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
		})
	})

	t.Run("get user by id ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).User()
			created, err := r.CreateUser(t.Context(), createParams)
			require.NoError(t, err)

			got, err := r.UserByID(t.Context(), created.ID, false)

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, created.Email, got.Email)
			assert.Empty(t, got.HashedPassword)
		})
	})

	t.Run("get user by id not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).User()

			_, err := r.UserByID(t.Context(), uuid.New(), false)

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound, "should return well known error")
		})
	})

	t.Run("get user by email with secrets", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).User()
			created, err := r.CreateUser(t.Context(), createParams)
			require.NoError(t, err)

			got, err := r.UserByEmail(t.Context(), "ALEX@example.com", true)

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, "hashedpassword123", got.HashedPassword, "secrets requested explicitly")

			got, err = r.UserByEmail(t.Context(), "alex@example.com", false)
			require.NoError(t, err)
			assert.Empty(t, got.HashedPassword)
		})
	})

	t.Run("update user partial", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).User()
			created, err := r.CreateUser(t.Context(), createParams)
			require.NoError(t, err)

			firstName := "Alexander"
			now := time.Now()
			got, err := r.UpdateUser(t.Context(), created.ID, repository.UpdateUserParams{
				FirstName: &firstName,
				LastLogin: &now,
			})

			require.NoError(t, err)
			assert.Equal(t, "Alexander", got.FirstName)
			assert.Equal(t, created.LastName, got.LastName, "untouched fields should stay")
			require.NotNil(t, got.LastLogin)
			assert.WithinDuration(t, now, *got.LastLogin, time.Second)
		})
	})

	t.Run("update user email taken", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).User()
			_, err := r.CreateUser(t.Context(), createParams)
			require.NoError(t, err)

			other := createParams
			other.Email = "other@example.com"
			second, err := r.CreateUser(t.Context(), other)
			require.NoError(t, err)

			taken := "Alex@example.com"
			_, err = r.UpdateUser(t.Context(), second.ID, repository.UpdateUserParams{Email: &taken})
			assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
		})
	})

	t.Run("reset token lifecycle", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).User()
			created, err := r.CreateUser(t.Context(), createParams)
			require.NoError(t, err)

			expiresAt := time.Now().Add(time.Hour)
			require.NoError(t, r.SetResetToken(t.Context(), created.ID, "tokenhash", expiresAt))

			got, err := r.UserByID(t.Context(), created.ID, true)
			require.NoError(t, err)
			require.NotNil(t, got.ResetTokenHash)
			assert.Equal(t, "tokenhash", *got.ResetTokenHash)

			// Consume replaces the password and clears both reset fields
			user, err := r.ConsumeResetToken(t.Context(), "tokenhash", "newhash", time.Now())
			require.NoError(t, err)
			assert.Equal(t, created.ID, user.ID)

			got, err = r.UserByID(t.Context(), created.ID, true)
			require.NoError(t, err)
			assert.Equal(t, "newhash", got.HashedPassword)
			assert.Nil(t, got.ResetTokenHash)
			assert.Nil(t, got.ResetExpiresAt)

			// Spent token must not match again
			_, err = r.ConsumeResetToken(t.Context(), "tokenhash", "anotherhash", time.Now())
			assert.ErrorIs(t, err, apperrors.ErrResetTokenInvalid)
		})
	})

	t.Run("consume expired token", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).User()
			created, err := r.CreateUser(t.Context(), createParams)
			require.NoError(t, err)

			expiresAt := time.Now().Add(time.Hour)
			require.NoError(t, r.SetResetToken(t.Context(), created.ID, "tokenhash", expiresAt))

			// Pretend the reset is attempted after the expiry moment
			_, err = r.ConsumeResetToken(t.Context(), "tokenhash", "newhash", expiresAt.Add(time.Second))
			assert.ErrorIs(t, err, apperrors.ErrResetTokenInvalid)
		})
	})

	t.Run("clear reset token", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).User()
			created, err := r.CreateUser(t.Context(), createParams)
			require.NoError(t, err)

			require.NoError(t, r.SetResetToken(t.Context(), created.ID, "tokenhash", time.Now().Add(time.Hour)))
			require.NoError(t, r.ClearResetToken(t.Context(), created.ID))

			got, err := r.UserByID(t.Context(), created.ID, true)
			require.NoError(t, err)
			assert.Nil(t, got.ResetTokenHash)
			assert.Nil(t, got.ResetExpiresAt)
		})
	})
}
