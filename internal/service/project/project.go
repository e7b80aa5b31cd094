package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

type Service struct {
	projects repository.ProjectRepo
}

func NewService(projects repository.ProjectRepo) *Service {
	return &Service{projects: projects}
}

// Create stores a new project. A missing slug is derived from the title.
func (s *Service) Create(ctx context.Context, p models.Project) (models.Project, error) {
	if p.Slug == "" {
		p.Slug = slug.Make(p.Title)
	}
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	return s.projects.CreateProject(ctx, p)
}

func (s *Service) List(ctx context.Context, f repository.ProjectFilter) ([]models.Project, int64, error) {
	return s.projects.ListProjects(ctx, f)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.projects.Categories(ctx)
}

// Get looks the project up by id when the key parses as a UUID and by
// slug otherwise
func (s *Service) Get(ctx context.Context, key string) (models.Project, error) {
	if id, err := uuid.Parse(key); err == nil {
		return s.projects.ProjectByID(ctx, id)
	}
	return s.projects.ProjectBySlug(ctx, key)
}

// Update patches the given fields. A changed title without an explicit
// slug regenerates the slug to match.
func (s *Service) Update(ctx context.Context, id uuid.UUID, arg repository.UpdateProjectParams) (models.Project, error) {
	if arg.Title != nil && arg.Slug == nil {
		generated := slug.Make(*arg.Title)
		arg.Slug = &generated
	}
	return s.projects.UpdateProject(ctx, id, arg)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.projects.DeleteProject(ctx, id)
}
