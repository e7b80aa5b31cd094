// Package catalog manages the services offered on the site.
package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

type Service struct {
	services repository.ServiceRepo
}

func NewService(services repository.ServiceRepo) *Service {
	return &Service{services: services}
}

func (s *Service) Create(ctx context.Context, offering models.Service) (models.Service, error) {
	if offering.Slug == "" {
		offering.Slug = slug.Make(offering.Title)
	}
	return s.services.CreateService(ctx, offering)
}

func (s *Service) List(ctx context.Context, p repository.ListParams) ([]models.Service, int64, error) {
	return s.services.ListServices(ctx, p)
}

// Get accepts either a UUID or a slug
func (s *Service) Get(ctx context.Context, key string) (models.Service, error) {
	if id, err := uuid.Parse(key); err == nil {
		return s.services.ServiceByID(ctx, id)
	}
	return s.services.ServiceBySlug(ctx, key)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, arg repository.UpdateServiceParams) (models.Service, error) {
	if arg.Title != nil && arg.Slug == nil {
		generated := slug.Make(*arg.Title)
		arg.Slug = &generated
	}
	return s.services.UpdateService(ctx, id, arg)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.services.DeleteService(ctx, id)
}
