package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/handlers/render"
	"github.com/akarpov/portfolio-api/internal/logger"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

type priceRequest struct {
	Amount       decimal.Decimal     `json:"amount" validate:"required"`
	Currency     string              `json:"currency" validate:"required,len=3"`
	BillingCycle models.BillingCycle `json:"billingCycle" validate:"omitempty,oneof=one-time monthly yearly"`
}

func (p *priceRequest) toModel() *models.Price {
	if p == nil {
		return nil
	}
	return &models.Price{
		Amount:       p.Amount,
		Currency:     p.Currency,
		BillingCycle: p.BillingCycle,
	}
}

func handleListServices(s catalogService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := listParamsFromQuery(r)

		services, total, err := s.List(r.Context(), params)
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, newListResponse(services, params, total))
	})
}

func handleGetService(s catalogService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		service, err := s.Get(r.Context(), r.PathValue("key"))
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, service)
	})
}

func handleCreateService(s catalogService, log logger.Logger) http.Handler {
	type request struct {
		Title               string        `json:"title" validate:"required,max=200"`
		Slug                string        `json:"slug" validate:"omitempty,max=200"`
		Description         string        `json:"description" validate:"required"`
		DetailedDescription string        `json:"detailedDescription"`
		Icon                string        `json:"icon" validate:"required,max=100"`
		Features            []string      `json:"features"`
		Price               *priceRequest `json:"price"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		service, err := s.Create(r.Context(), models.Service{
			Title:               req.Title,
			Slug:                req.Slug,
			Description:         req.Description,
			DetailedDescription: req.DetailedDescription,
			Icon:                req.Icon,
			Features:            req.Features,
			Price:               req.Price.toModel(),
		})
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSONStatus(w, service, http.StatusCreated)
	})
}

func handleUpdateService(s catalogService, log logger.Logger) http.Handler {
	type request struct {
		Title               *string       `json:"title" validate:"omitempty,max=200"`
		Slug                *string       `json:"slug" validate:"omitempty,max=200"`
		Description         *string       `json:"description"`
		DetailedDescription *string       `json:"detailedDescription"`
		Icon                *string       `json:"icon" validate:"omitempty,max=100"`
		Features            []string      `json:"features"`
		Price               *priceRequest `json:"price"`
		ClearPrice          bool          `json:"clearPrice"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			respondError(w, log, apperrors.ErrServiceNotFound)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		service, err := s.Update(r.Context(), id, repository.UpdateServiceParams{
			Title:               req.Title,
			Slug:                req.Slug,
			Description:         req.Description,
			DetailedDescription: req.DetailedDescription,
			Icon:                req.Icon,
			Features:            req.Features,
			Price:               req.Price.toModel(),
			ClearPrice:          req.ClearPrice,
		})
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, service)
	})
}

func handleDeleteService(s catalogService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			respondError(w, log, apperrors.ErrServiceNotFound)
			return
		}

		if err := s.Delete(r.Context(), id); err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, messageResponse{Message: "Service deleted"})
	})
}
