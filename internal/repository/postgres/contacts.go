package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

type ContactRepo struct {
	DB DBTX
}

const submissionColumns = `id, created_at, updated_at, name, email, subject, message, status`

const createSubmission = `-- name: CreateSubmission
INSERT INTO contact_submissions (id, created_at, updated_at, name, email, subject, message, status)
VALUES ($1, $2, $2, $3, lower($4), $5, $6, $7)
RETURNING ` + submissionColumns

func (r *ContactRepo) CreateSubmission(ctx context.Context, s models.ContactSubmission) (models.ContactSubmission, error) {
	if s.Status == "" {
		s.Status = models.SubmissionNew
	}

	rows, _ := r.DB.Query(ctx, createSubmission,
		uuid.New(), time.Now(), s.Name, s.Email, s.Subject, s.Message, s.Status,
	)
	submission, err := pgx.CollectOneRow(rows, rowToSubmission)
	if err != nil {
		return submission, fmt.Errorf("db error: %w", err)
	}
	return submission, nil
}

func (r *ContactRepo) ListSubmissions(ctx context.Context, f repository.SubmissionFilter) ([]models.ContactSubmission, int64, error) {
	where := ""
	args := []any{}
	if f.Status != "" {
		where = " WHERE status = $1"
		args = append(args, f.Status)
	}

	var total int64
	if err := r.DB.QueryRow(ctx, `SELECT count(*) FROM contact_submissions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	p := f.Normalized()
	listQuery := fmt.Sprintf(
		`SELECT `+submissionColumns+` FROM contact_submissions`+where+` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2,
	)
	args = append(args, p.Limit, f.Offset())

	rows, _ := r.DB.Query(ctx, listQuery, args...)
	submissions, err := pgx.CollectRows(rows, rowToSubmission)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return submissions, total, nil
}

const updateSubmissionStatus = `-- name: UpdateSubmissionStatus
UPDATE contact_submissions
SET status = $2, updated_at = $3
WHERE id = $1
RETURNING ` + submissionColumns

func (r *ContactRepo) UpdateSubmissionStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) (models.ContactSubmission, error) {
	rows, _ := r.DB.Query(ctx, updateSubmissionStatus, id, status, time.Now())
	submission, err := pgx.CollectOneRow(rows, rowToSubmission)

	switch {
	case err == nil:
		return submission, nil
	case errors.Is(err, pgx.ErrNoRows):
		return submission, apperrors.ErrSubmissionNotFound
	default:
		return submission, fmt.Errorf("db error: %w", err)
	}
}

const deleteSubmission = `-- name: DeleteSubmission
DELETE FROM contact_submissions WHERE id = $1
`

func (r *ContactRepo) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteSubmission, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubmissionNotFound
	}
	return nil
}

func rowToSubmission(row pgx.CollectableRow) (models.ContactSubmission, error) {
	var s models.ContactSubmission
	err := row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt, &s.Name, &s.Email, &s.Subject, &s.Message, &s.Status)
	return s, err
}
