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
	"github.com/shopspring/decimal"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

type ServiceRepo struct {
	DB DBTX
}

const serviceColumns = `id, created_at, updated_at, title, slug, description, detailed_description, icon, features, price_amount, price_currency, price_billing_cycle`

const createService = `-- name: CreateService
INSERT INTO services (id, created_at, updated_at, title, slug, description, detailed_description, icon, features, price_amount, price_currency, price_billing_cycle)
VALUES ($1, $2, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + serviceColumns

func (r *ServiceRepo) CreateService(ctx context.Context, s models.Service) (models.Service, error) {
	amount, currency, cycle := priceColumns(s.Price)

	rows, _ := r.DB.Query(ctx, createService,
		uuid.New(), time.Now(), s.Title, s.Slug, s.Description, s.DetailedDescription,
		s.Icon, s.Features, amount, currency, cycle,
	)
	service, err := pgx.CollectOneRow(rows, rowToService)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return service, apperrors.ErrServiceExists
		}
		return service, fmt.Errorf("db error: %w", err)
	}

	return service, nil
}

const listServices = `-- name: ListServices
SELECT ` + serviceColumns + `
FROM services
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`

func (r *ServiceRepo) ListServices(ctx context.Context, p repository.ListParams) ([]models.Service, int64, error) {
	var total int64
	if err := r.DB.QueryRow(ctx, `SELECT count(*) FROM services`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	norm := p.Normalized()
	rows, _ := r.DB.Query(ctx, listServices, norm.Limit, norm.Offset())
	services, err := pgx.CollectRows(rows, rowToService)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return services, total, nil
}

const serviceByID = `-- name: ServiceByID
SELECT ` + serviceColumns + ` FROM services WHERE id = $1
`

func (r *ServiceRepo) ServiceByID(ctx context.Context, id uuid.UUID) (models.Service, error) {
	rows, _ := r.DB.Query(ctx, serviceByID, id)
	return collectService(rows)
}

const serviceBySlug = `-- name: ServiceBySlug
SELECT ` + serviceColumns + ` FROM services WHERE slug = $1
`

func (r *ServiceRepo) ServiceBySlug(ctx context.Context, slug string) (models.Service, error) {
	rows, _ := r.DB.Query(ctx, serviceBySlug, slug)
	return collectService(rows)
}

const updateService = `-- name: UpdateService
UPDATE services
SET title                = COALESCE($2, title),
    slug                 = COALESCE($3, slug),
    description          = COALESCE($4, description),
    detailed_description = COALESCE($5, detailed_description),
    icon                 = COALESCE($6, icon),
    features             = COALESCE($7, features),
    price_amount         = CASE WHEN $8 THEN $9::numeric ELSE price_amount END,
    price_currency       = CASE WHEN $8 THEN $10::text ELSE price_currency END,
    price_billing_cycle  = CASE WHEN $8 THEN $11::text ELSE price_billing_cycle END,
    updated_at           = $12
WHERE id = $1
RETURNING ` + serviceColumns

func (r *ServiceRepo) UpdateService(ctx context.Context, id uuid.UUID, arg repository.UpdateServiceParams) (models.Service, error) {
	amount, currency, cycle := priceColumns(arg.Price)
	setPrice := arg.Price != nil || arg.ClearPrice

	rows, _ := r.DB.Query(ctx, updateService,
		id, arg.Title, arg.Slug, arg.Description, arg.DetailedDescription, arg.Icon,
		arg.Features, setPrice, amount, currency, cycle, time.Now(),
	)
	service, err := pgx.CollectOneRow(rows, rowToService)

	switch {
	case err == nil:
		return service, nil
	case errors.Is(err, pgx.ErrNoRows):
		return service, apperrors.ErrServiceNotFound
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return service, apperrors.ErrServiceExists
		}
		return service, fmt.Errorf("db error: %w", err)
	}
}

const deleteService = `-- name: DeleteService
DELETE FROM services WHERE id = $1
`

func (r *ServiceRepo) DeleteService(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteService, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrServiceNotFound
	}
	return nil
}

func collectService(rows pgx.Rows) (models.Service, error) {
	service, err := pgx.CollectOneRow(rows, rowToService)

	switch {
	case err == nil:
		return service, nil
	case errors.Is(err, pgx.ErrNoRows):
		return service, apperrors.ErrServiceNotFound
	default:
		return service, fmt.Errorf("db error: %w", err)
	}
}

func priceColumns(p *models.Price) (amount decimal.NullDecimal, currency *string, cycle *models.BillingCycle) {
	if p == nil {
		return amount, nil, nil
	}

	amount = decimal.NullDecimal{Decimal: p.Amount, Valid: true}
	currency = &p.Currency
	if p.BillingCycle != "" {
		cycle = &p.BillingCycle
	}
	return amount, currency, cycle
}

func rowToService(row pgx.CollectableRow) (models.Service, error) {
	var s models.Service
	var amount decimal.NullDecimal
	var currency *string
	var cycle *models.BillingCycle

	err := row.Scan(
		&s.ID, &s.CreatedAt, &s.UpdatedAt, &s.Title, &s.Slug, &s.Description,
		&s.DetailedDescription, &s.Icon, &s.Features, &amount, &currency, &cycle,
	)
	if err != nil {
		return s, err
	}

	if amount.Valid {
		s.Price = &models.Price{Amount: amount.Decimal}
		if currency != nil {
			s.Price.Currency = *currency
		}
		if cycle != nil {
			s.Price.BillingCycle = *cycle
		}
	}

	return s, nil
}
