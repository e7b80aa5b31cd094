package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const userColumns = `id, created_at, updated_at, email, hashed_password, first_name, last_name, role, last_login, reset_token_hash, reset_expires_at`

const createUser = `-- name: CreateUser
INSERT INTO users (id, created_at, updated_at, email, hashed_password, first_name, last_name, role, last_login)
VALUES ($1, $2, $2, lower($3), $4, $5, $6, $7, $8)
RETURNING ` + userColumns

func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	role := arg.Role
	if role == "" {
		role = models.RoleClient
	}

	rows, _ := r.DB.Query(ctx, createUser,
		uuid.New(), time.Now(), arg.Email, arg.HashedPassword, arg.FirstName, arg.LastName, role, arg.LastLogin,
	)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return user, apperrors.ErrUserAlreadyExists
		}
		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const userByID = `-- name: UserByID
SELECT ` + userColumns + `
FROM users
WHERE id = $1
`

func (r *UserRepo) UserByID(ctx context.Context, id uuid.UUID, withSecrets bool) (models.User, error) {
	rows, _ := r.DB.Query(ctx, userByID, id)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil && withSecrets:
		return user, nil
	case err == nil:
		return stripSecrets(user), nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const userByEmail = `-- name: UserByEmail
SELECT ` + userColumns + `
FROM users
WHERE email = lower($1)
`

func (r *UserRepo) UserByEmail(ctx context.Context, email string, withSecrets bool) (models.User, error) {
	rows, _ := r.DB.Query(ctx, userByEmail, email)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil && withSecrets:
		return user, nil
	case err == nil:
		return stripSecrets(user), nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const updateUser = `-- name: UpdateUser
UPDATE users
SET email           = COALESCE(lower($2), email),
    first_name      = COALESCE($3, first_name),
    last_name       = COALESCE($4, last_name),
    hashed_password = COALESCE($5, hashed_password),
    last_login      = COALESCE($6, last_login),
    updated_at      = $7
WHERE id = $1
RETURNING ` + userColumns

func (r *UserRepo) UpdateUser(ctx context.Context, id uuid.UUID, arg repository.UpdateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updateUser,
		id, arg.Email, arg.FirstName, arg.LastName, arg.HashedPassword, arg.LastLogin, time.Now(),
	)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return stripSecrets(user), nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return user, apperrors.ErrUserAlreadyExists
		}
		return user, fmt.Errorf("db error: %w", err)
	}
}

const setResetToken = `-- name: SetResetToken
UPDATE users
SET reset_token_hash = $2,
    reset_expires_at = $3,
    updated_at       = $4
WHERE id = $1
RETURNING id
`

func (r *UserRepo) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	rows, _ := r.DB.Query(ctx, setResetToken, id, tokenHash, expiresAt, time.Now())
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrUserNotFound
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

const clearResetToken = `-- name: ClearResetToken
UPDATE users
SET reset_token_hash = NULL,
    reset_expires_at = NULL,
    updated_at       = $2
WHERE id = $1
RETURNING id
`

func (r *UserRepo) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	rows, _ := r.DB.Query(ctx, clearResetToken, id, time.Now())
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrUserNotFound
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

// New password is set and the token cleared in one statement, so a token
// can never be spent twice even under concurrent completion attempts
const consumeResetToken = `-- name: ConsumeResetToken
UPDATE users
SET hashed_password  = $2,
    reset_token_hash = NULL,
    reset_expires_at = NULL,
    updated_at       = $3
WHERE reset_token_hash = $1 AND reset_expires_at > $3
RETURNING ` + userColumns

func (r *UserRepo) ConsumeResetToken(ctx context.Context, tokenHash string, newHashedPassword string, now time.Time) (models.User, error) {
	rows, _ := r.DB.Query(ctx, consumeResetToken, tokenHash, newHashedPassword, now)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return stripSecrets(user), nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrResetTokenInvalid
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Email, &u.HashedPassword,
		&u.FirstName, &u.LastName, &u.Role, &u.LastLogin,
		&u.ResetTokenHash, &u.ResetExpiresAt,
	)
	return u, err
}

func stripSecrets(u models.User) models.User {
	u.HashedPassword = ""
	u.ResetTokenHash = nil
	u.ResetExpiresAt = nil
	return u
}
