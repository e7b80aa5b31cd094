package handlers

import (
	"errors"
	"net/http"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/handlers/render"
	"github.com/akarpov/portfolio-api/internal/logger"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

func handleSubscribe(s newsletterService, log logger.Logger) http.Handler {
	type request struct {
		Email string `json:"email" validate:"required,email"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		subscription, err := s.Subscribe(r.Context(), req.Email)
		if err != nil {
			// An already active subscriber is not an error worth leaking
			// to the visitor
			if errors.Is(err, apperrors.ErrAlreadySubscribed) {
				render.JSON(w, messageResponse{Message: "Email is already subscribed"})
				return
			}
			respondError(w, log, err)
			return
		}

		render.JSONStatus(w, subscription, http.StatusCreated)
	})
}

func handleUnsubscribe(s newsletterService, log logger.Logger) http.Handler {
	type request struct {
		Email string `json:"email" validate:"required,email"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		if _, err := s.Unsubscribe(r.Context(), req.Email); err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, messageResponse{Message: "Unsubscribed"})
	})
}

func handleListSubscribers(s newsletterService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter := repository.SubscriptionFilter{
			ListParams: listParamsFromQuery(r),
			Status:     models.SubscriptionStatus(r.URL.Query().Get("status")),
		}

		subscriptions, total, err := s.List(r.Context(), filter)
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, newListResponse(subscriptions, filter.ListParams, total))
	})
}

func handleSendNewsletter(s newsletterService, log logger.Logger) http.Handler {
	type request struct {
		Subject string `json:"subject" validate:"required,max=200"`
		Content string `json:"content" validate:"required"`
	}
	type response struct {
		Message    string `json:"message"`
		Recipients int    `json:"recipients"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		sent, err := s.Send(r.Context(), req.Subject, req.Content)
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, response{Message: "Newsletter sent", Recipients: sent})
	})
}
