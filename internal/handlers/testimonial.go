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

func handleListTestimonials(s testimonialService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter := repository.TestimonialFilter{
			ListParams: listParamsFromQuery(r),
			Featured:   r.URL.Query().Get("featured") == "true",
		}

		testimonials, total, err := s.List(r.Context(), filter)
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, newListResponse(testimonials, filter.ListParams, total))
	})
}

func handleGetTestimonial(s testimonialService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			respondError(w, log, apperrors.ErrTestimonialNotFound)
			return
		}

		testimonial, err := s.Get(r.Context(), id)
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, testimonial)
	})
}

func handleCreateTestimonial(s testimonialService, log logger.Logger) http.Handler {
	type request struct {
		Name     string `json:"name" validate:"required,max=100"`
		Position string `json:"position" validate:"required,max=100"`
		Company  string `json:"company" validate:"required,max=100"`
		Content  string `json:"content" validate:"required"`
		Rating   int    `json:"rating" validate:"required,min=1,max=5"`
		Avatar   string `json:"avatar"`
		Featured bool   `json:"featured"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		testimonial, err := s.Create(r.Context(), models.Testimonial{
			Name:     req.Name,
			Position: req.Position,
			Company:  req.Company,
			Content:  req.Content,
			Rating:   req.Rating,
			Avatar:   req.Avatar,
			Featured: req.Featured,
		})
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSONStatus(w, testimonial, http.StatusCreated)
	})
}

func handleUpdateTestimonial(s testimonialService, log logger.Logger) http.Handler {
	type request struct {
		Name     *string `json:"name" validate:"omitempty,max=100"`
		Position *string `json:"position" validate:"omitempty,max=100"`
		Company  *string `json:"company" validate:"omitempty,max=100"`
		Content  *string `json:"content"`
		Rating   *int    `json:"rating" validate:"omitempty,min=1,max=5"`
		Avatar   *string `json:"avatar"`
		Featured *bool   `json:"featured"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			respondError(w, log, apperrors.ErrTestimonialNotFound)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		testimonial, err := s.Update(r.Context(), id, repository.UpdateTestimonialParams{
			Name:     req.Name,
			Position: req.Position,
			Company:  req.Company,
			Content:  req.Content,
			Rating:   req.Rating,
			Avatar:   req.Avatar,
			Featured: req.Featured,
		})
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, testimonial)
	})
}

func handleDeleteTestimonial(s testimonialService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			respondError(w, log, apperrors.ErrTestimonialNotFound)
			return
		}

		if err := s.Delete(r.Context(), id); err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, messageResponse{Message: "Testimonial deleted"})
	})
}
