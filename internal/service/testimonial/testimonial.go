package testimonial

import (
	"context"

	"github.com/google/uuid"

	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

type Service struct {
	testimonials repository.TestimonialRepo
}

func NewService(testimonials repository.TestimonialRepo) *Service {
	return &Service{testimonials: testimonials}
}

func (s *Service) Create(ctx context.Context, t models.Testimonial) (models.Testimonial, error) {
	return s.testimonials.CreateTestimonial(ctx, t)
}

func (s *Service) List(ctx context.Context, f repository.TestimonialFilter) ([]models.Testimonial, int64, error) {
	return s.testimonials.ListTestimonials(ctx, f)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (models.Testimonial, error) {
	return s.testimonials.TestimonialByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, arg repository.UpdateTestimonialParams) (models.Testimonial, error) {
	return s.testimonials.UpdateTestimonial(ctx, id, arg)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.testimonials.DeleteTestimonial(ctx, id)
}
