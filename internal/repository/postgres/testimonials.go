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

type TestimonialRepo struct {
	DB DBTX
}

const testimonialColumns = `id, created_at, updated_at, name, position, company, content, rating, avatar, featured`

const createTestimonial = `-- name: CreateTestimonial
INSERT INTO testimonials (id, created_at, updated_at, name, position, company, content, rating, avatar, featured)
VALUES ($1, $2, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + testimonialColumns

func (r *TestimonialRepo) CreateTestimonial(ctx context.Context, t models.Testimonial) (models.Testimonial, error) {
	rows, _ := r.DB.Query(ctx, createTestimonial,
		uuid.New(), time.Now(), t.Name, t.Position, t.Company, t.Content, t.Rating, t.Avatar, t.Featured,
	)
	testimonial, err := pgx.CollectOneRow(rows, rowToTestimonial)
	if err != nil {
		return testimonial, fmt.Errorf("db error: %w", err)
	}
	return testimonial, nil
}

func (r *TestimonialRepo) ListTestimonials(ctx context.Context, f repository.TestimonialFilter) ([]models.Testimonial, int64, error) {
	where := ""
	if f.Featured {
		where = " WHERE featured"
	}

	var total int64
	if err := r.DB.QueryRow(ctx, `SELECT count(*) FROM testimonials`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	p := f.Normalized()
	rows, _ := r.DB.Query(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials`+where+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		p.Limit, f.Offset(),
	)
	testimonials, err := pgx.CollectRows(rows, rowToTestimonial)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return testimonials, total, nil
}

const testimonialByID = `-- name: TestimonialByID
SELECT ` + testimonialColumns + ` FROM testimonials WHERE id = $1
`

func (r *TestimonialRepo) TestimonialByID(ctx context.Context, id uuid.UUID) (models.Testimonial, error) {
	rows, _ := r.DB.Query(ctx, testimonialByID, id)
	testimonial, err := pgx.CollectOneRow(rows, rowToTestimonial)

	switch {
	case err == nil:
		return testimonial, nil
	case errors.Is(err, pgx.ErrNoRows):
		return testimonial, apperrors.ErrTestimonialNotFound
	default:
		return testimonial, fmt.Errorf("db error: %w", err)
	}
}

const updateTestimonial = `-- name: UpdateTestimonial
UPDATE testimonials
SET name       = COALESCE($2, name),
    position   = COALESCE($3, position),
    company    = COALESCE($4, company),
    content    = COALESCE($5, content),
    rating     = COALESCE($6, rating),
    avatar     = COALESCE($7, avatar),
    featured   = COALESCE($8, featured),
    updated_at = $9
WHERE id = $1
RETURNING ` + testimonialColumns

func (r *TestimonialRepo) UpdateTestimonial(ctx context.Context, id uuid.UUID, arg repository.UpdateTestimonialParams) (models.Testimonial, error) {
	rows, _ := r.DB.Query(ctx, updateTestimonial,
		id, arg.Name, arg.Position, arg.Company, arg.Content, arg.Rating, arg.Avatar, arg.Featured, time.Now(),
	)
	testimonial, err := pgx.CollectOneRow(rows, rowToTestimonial)

	switch {
	case err == nil:
		return testimonial, nil
	case errors.Is(err, pgx.ErrNoRows):
		return testimonial, apperrors.ErrTestimonialNotFound
	default:
		return testimonial, fmt.Errorf("db error: %w", err)
	}
}

const deleteTestimonial = `-- name: DeleteTestimonial
DELETE FROM testimonials WHERE id = $1
`

func (r *TestimonialRepo) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteTestimonial, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTestimonialNotFound
	}
	return nil
}

func rowToTestimonial(row pgx.CollectableRow) (models.Testimonial, error) {
	var t models.Testimonial
	err := row.Scan(
		&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.Name, &t.Position, &t.Company,
		&t.Content, &t.Rating, &t.Avatar, &t.Featured,
	)
	return t, err
}
