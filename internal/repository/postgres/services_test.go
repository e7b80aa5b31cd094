package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
	"github.com/akarpov/portfolio-api/internal/testutil"
)

func Test_ServiceRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	consulting := models.Service{
		Title:       "Consulting",
		Slug:        "consulting",
		Description: "architecture reviews",
		Icon:        "briefcase",
		Features:    []string{"review", "report"},
		Price: &models.Price{
			Amount:       decimal.RequireFromString("150.00"),
			Currency:     "USD",
			BillingCycle: models.BillingMonthly,
		},
	}

	t.Run("create with price", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).Service()

			created, err := r.CreateService(t.Context(), consulting)

			require.NoError(t, err)
			require.NotNil(t, created.Price)
			assert.True(t, created.Price.Amount.Equal(decimal.RequireFromString("150.00")))
			assert.Equal(t, "USD", created.Price.Currency)
			assert.Equal(t, models.BillingMonthly, created.Price.BillingCycle)
		})
	})

	t.Run("create without price", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).Service()

			free := consulting
			free.Slug = "free-consulting"
			free.Price = nil

			created, err := r.CreateService(t.Context(), free)

			require.NoError(t, err)
			assert.Nil(t, created.Price)
		})
	})

	t.Run("duplicate slug", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).Service()

			_, err := r.CreateService(t.Context(), consulting)
			require.NoError(t, err)

			_, err = r.CreateService(t.Context(), consulting)
			assert.ErrorIs(t, err, apperrors.ErrServiceExists)
		})
	})

	t.Run("update keeps price unless asked", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).Service()

			created, err := r.CreateService(t.Context(), consulting)
			require.NoError(t, err)

			// Title-only update must not touch the price columns
			title := "Deep Consulting"
			got, err := r.UpdateService(t.Context(), created.ID, repository.UpdateServiceParams{Title: &title})
			require.NoError(t, err)
			assert.Equal(t, "Deep Consulting", got.Title)
			require.NotNil(t, got.Price)
			assert.True(t, got.Price.Amount.Equal(decimal.RequireFromString("150.00")))

			// New price replaces the old one
			got, err = r.UpdateService(t.Context(), created.ID, repository.UpdateServiceParams{
				Price: &models.Price{
					Amount:       decimal.RequireFromString("200.00"),
					Currency:     "EUR",
					BillingCycle: models.BillingYearly,
				},
			})
			require.NoError(t, err)
			require.NotNil(t, got.Price)
			assert.True(t, got.Price.Amount.Equal(decimal.RequireFromString("200.00")))
			assert.Equal(t, "EUR", got.Price.Currency)

			// ClearPrice drops it entirely
			got, err = r.UpdateService(t.Context(), created.ID, repository.UpdateServiceParams{ClearPrice: true})
			require.NoError(t, err)
			assert.Nil(t, got.Price)
		})
	})

	t.Run("get by slug", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := NewStorage(tx).Service()

			created, err := r.CreateService(t.Context(), consulting)
			require.NoError(t, err)

			got, err := r.ServiceBySlug(t.Context(), "consulting")
			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)

			_, err = r.ServiceBySlug(t.Context(), "missing")
			assert.ErrorIs(t, err, apperrors.ErrServiceNotFound)
		})
	})
}
