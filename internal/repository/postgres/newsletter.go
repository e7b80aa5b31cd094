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

type NewsletterRepo struct {
	DB DBTX
}

const subscriptionColumns = `id, created_at, updated_at, email, status, last_email_sent`

const createSubscription = `-- name: CreateSubscription
INSERT INTO newsletter_subscriptions (id, created_at, updated_at, email, status)
VALUES ($1, $2, $2, lower($3), $4)
RETURNING ` + subscriptionColumns

func (r *NewsletterRepo) CreateSubscription(ctx context.Context, email string) (models.Subscription, error) {
	rows, _ := r.DB.Query(ctx, createSubscription, uuid.New(), time.Now(), email, models.SubscriptionActive)
	sub, err := pgx.CollectOneRow(rows, rowToSubscription)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return sub, apperrors.ErrAlreadySubscribed
		}
		return sub, fmt.Errorf("db error: %w", err)
	}

	return sub, nil
}

const subscriptionByEmail = `-- name: SubscriptionByEmail
SELECT ` + subscriptionColumns + `
FROM newsletter_subscriptions
WHERE email = lower($1)
`

func (r *NewsletterRepo) SubscriptionByEmail(ctx context.Context, email string) (models.Subscription, error) {
	rows, _ := r.DB.Query(ctx, subscriptionByEmail, email)
	sub, err := pgx.CollectOneRow(rows, rowToSubscription)

	switch {
	case err == nil:
		return sub, nil
	case errors.Is(err, pgx.ErrNoRows):
		return sub, apperrors.ErrSubscriptionNotFound
	default:
		return sub, fmt.Errorf("db error: %w", err)
	}
}

const updateSubscriptionStatus = `-- name: UpdateSubscriptionStatus
UPDATE newsletter_subscriptions
SET status = $2, updated_at = $3
WHERE id = $1
RETURNING ` + subscriptionColumns

func (r *NewsletterRepo) UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, status models.SubscriptionStatus) (models.Subscription, error) {
	rows, _ := r.DB.Query(ctx, updateSubscriptionStatus, id, status, time.Now())
	sub, err := pgx.CollectOneRow(rows, rowToSubscription)

	switch {
	case err == nil:
		return sub, nil
	case errors.Is(err, pgx.ErrNoRows):
		return sub, apperrors.ErrSubscriptionNotFound
	default:
		return sub, fmt.Errorf("db error: %w", err)
	}
}

func (r *NewsletterRepo) ListSubscriptions(ctx context.Context, f repository.SubscriptionFilter) ([]models.Subscription, int64, error) {
	where := ""
	args := []any{}
	if f.Status != "" {
		where = " WHERE status = $1"
		args = append(args, f.Status)
	}

	var total int64
	if err := r.DB.QueryRow(ctx, `SELECT count(*) FROM newsletter_subscriptions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	p := f.Normalized()
	listQuery := fmt.Sprintf(
		`SELECT `+subscriptionColumns+` FROM newsletter_subscriptions`+where+` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2,
	)
	args = append(args, p.Limit, f.Offset())

	rows, _ := r.DB.Query(ctx, listQuery, args...)
	subs, err := pgx.CollectRows(rows, rowToSubscription)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return subs, total, nil
}

const activeEmails = `-- name: ActiveEmails
SELECT email FROM newsletter_subscriptions
WHERE status = 'active'
ORDER BY created_at
`

func (r *NewsletterRepo) ActiveEmails(ctx context.Context) ([]string, error) {
	rows, _ := r.DB.Query(ctx, activeEmails)
	emails, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return emails, nil
}

const markEmailed = `-- name: MarkEmailed
UPDATE newsletter_subscriptions
SET last_email_sent = $1, updated_at = $1
WHERE status = 'active'
`

func (r *NewsletterRepo) MarkEmailed(ctx context.Context, at time.Time) error {
	_, err := r.DB.Exec(ctx, markEmailed, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func rowToSubscription(row pgx.CollectableRow) (models.Subscription, error) {
	var s models.Subscription
	err := row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt, &s.Email, &s.Status, &s.LastEmailSent)
	return s, err
}
