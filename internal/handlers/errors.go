package handlers

import (
	"errors"
	"net/http"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/handlers/render"
	"github.com/akarpov/portfolio-api/internal/logger"
)

// respondError translates service errors into HTTP statuses. Anything
// outside the sentinel taxonomy is a 500 and gets logged.
func respondError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidRequest),
		errors.Is(err, apperrors.ErrResetTokenInvalid),
		errors.Is(err, apperrors.ErrNoActiveSubscribers):
		render.ServiceError(w, err.Error(), http.StatusBadRequest)

	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrInvalidToken):
		render.ServiceError(w, err.Error(), http.StatusUnauthorized)

	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrProjectNotFound),
		errors.Is(err, apperrors.ErrServiceNotFound),
		errors.Is(err, apperrors.ErrTestimonialNotFound),
		errors.Is(err, apperrors.ErrSubmissionNotFound),
		errors.Is(err, apperrors.ErrSubscriptionNotFound):
		render.ServiceError(w, err.Error(), http.StatusNotFound)

	case errors.Is(err, apperrors.ErrUserAlreadyExists),
		errors.Is(err, apperrors.ErrProjectExists),
		errors.Is(err, apperrors.ErrServiceExists),
		errors.Is(err, apperrors.ErrAlreadySubscribed):
		render.ServiceError(w, err.Error(), http.StatusConflict)

	case errors.Is(err, apperrors.ErrEmailDeliveryFailed):
		render.ServiceError(w, err.Error(), http.StatusBadGateway)

	default:
		log.Error("unhandled service error", "error", err)
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
