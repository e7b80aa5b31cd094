package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/handlers/render"
	"github.com/akarpov/portfolio-api/internal/logger"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

func handleSubmitContact(s contactService, log logger.Logger) http.Handler {
	type request struct {
		Name    string `json:"name" validate:"required,max=100"`
		Email   string `json:"email" validate:"required,email"`
		Subject string `json:"subject" validate:"required,max=200"`
		Message string `json:"message" validate:"required,max=5000"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		submission, err := s.Submit(r.Context(), models.ContactSubmission{
			Name:    req.Name,
			Email:   req.Email,
			Subject: req.Subject,
			Message: req.Message,
		})
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSONStatus(w, submission, http.StatusCreated)
	})
}

func handleListSubmissions(s contactService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter := repository.SubmissionFilter{
			ListParams: listParamsFromQuery(r),
			Status:     models.SubmissionStatus(r.URL.Query().Get("status")),
		}

		submissions, total, err := s.List(r.Context(), filter)
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, newListResponse(submissions, filter.ListParams, total))
	})
}

func handleUpdateSubmissionStatus(s contactService, log logger.Logger) http.Handler {
	type request struct {
		Status models.SubmissionStatus `json:"status" validate:"required,oneof=new read responded archived"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			respondError(w, log, apperrors.ErrSubmissionNotFound)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		submission, err := s.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, submission)
	})
}

func handleDeleteSubmission(s contactService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			respondError(w, log, apperrors.ErrSubmissionNotFound)
			return
		}

		if err := s.Delete(r.Context(), id); err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, messageResponse{Message: "Submission deleted"})
	})
}
