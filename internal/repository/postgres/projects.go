package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

type ProjectRepo struct {
	DB DBTX
}

const projectColumns = `id, created_at, updated_at, title, slug, category, description, detailed_description, technologies, tech_stack, image, gallery, featured, project_date, tags, github_url, live_url, is_open_source, status`

const createProject = `-- name: CreateProject
INSERT INTO projects (id, created_at, updated_at, title, slug, category, description, detailed_description, technologies, tech_stack, image, gallery, featured, project_date, tags, github_url, live_url, is_open_source, status)
VALUES ($1, $2, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
RETURNING ` + projectColumns

func (r *ProjectRepo) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	techStack, err := marshalJSONB(p.TechStack)
	if err != nil {
		return p, fmt.Errorf("tech stack encoding error: %w", err)
	}

	if p.Status == "" {
		p.Status = models.ProjectActive
	}

	rows, _ := r.DB.Query(ctx, createProject,
		uuid.New(), time.Now(), p.Title, p.Slug, p.Category, p.Description, p.DetailedDescription,
		p.Technologies, techStack, p.Image, p.Gallery, p.Featured, p.ProjectDate, p.Tags,
		p.GithubURL, p.LiveURL, p.IsOpenSource, p.Status,
	)
	project, err := pgx.CollectOneRow(rows, rowToProject)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return project, apperrors.ErrProjectExists
		}
		return project, fmt.Errorf("db error: %w", err)
	}

	return project, nil
}

func (r *ProjectRepo) ListProjects(ctx context.Context, f repository.ProjectFilter) ([]models.Project, int64, error) {
	conds := []string{}
	args := []any{}

	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Featured {
		conds = append(conds, "featured")
	}
	if f.Search != "" {
		args = append(args, f.Search)
		conds = append(conds, fmt.Sprintf("(title ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')", len(args), len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	err := r.DB.QueryRow(ctx, `SELECT count(*) FROM projects`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	p := f.Normalized()
	listQuery := `SELECT ` + projectColumns + ` FROM projects` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, p.Limit, f.Offset())

	rows, _ := r.DB.Query(ctx, listQuery, args...)
	projects, err := pgx.CollectRows(rows, rowToProject)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return projects, total, nil
}

const projectCategories = `-- name: ProjectCategories
SELECT DISTINCT category FROM projects ORDER BY category
`

func (r *ProjectRepo) Categories(ctx context.Context) ([]string, error) {
	rows, _ := r.DB.Query(ctx, projectCategories)
	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return categories, nil
}

const projectByID = `-- name: ProjectByID
SELECT ` + projectColumns + ` FROM projects WHERE id = $1
`

func (r *ProjectRepo) ProjectByID(ctx context.Context, id uuid.UUID) (models.Project, error) {
	rows, _ := r.DB.Query(ctx, projectByID, id)
	return collectProject(rows)
}

const projectBySlug = `-- name: ProjectBySlug
SELECT ` + projectColumns + ` FROM projects WHERE slug = $1
`

func (r *ProjectRepo) ProjectBySlug(ctx context.Context, slug string) (models.Project, error) {
	rows, _ := r.DB.Query(ctx, projectBySlug, slug)
	return collectProject(rows)
}

const updateProject = `-- name: UpdateProject
UPDATE projects
SET title                = COALESCE($2, title),
    slug                 = COALESCE($3, slug),
    category             = COALESCE($4, category),
    description          = COALESCE($5, description),
    detailed_description = COALESCE($6, detailed_description),
    technologies         = COALESCE($7, technologies),
    tech_stack           = COALESCE($8, tech_stack),
    image                = COALESCE($9, image),
    gallery              = COALESCE($10, gallery),
    featured             = COALESCE($11, featured),
    project_date         = COALESCE($12, project_date),
    tags                 = COALESCE($13, tags),
    github_url           = COALESCE($14, github_url),
    live_url             = COALESCE($15, live_url),
    is_open_source       = COALESCE($16, is_open_source),
    status               = COALESCE($17, status),
    updated_at           = $18
WHERE id = $1
RETURNING ` + projectColumns

func (r *ProjectRepo) UpdateProject(ctx context.Context, id uuid.UUID, arg repository.UpdateProjectParams) (models.Project, error) {
	var project models.Project

	techStack, err := marshalJSONB(arg.TechStack)
	if err != nil {
		return project, fmt.Errorf("tech stack encoding error: %w", err)
	}

	rows, _ := r.DB.Query(ctx, updateProject,
		id, arg.Title, arg.Slug, arg.Category, arg.Description, arg.DetailedDescription,
		arg.Technologies, techStack, arg.Image, arg.Gallery, arg.Featured, arg.ProjectDate,
		arg.Tags, arg.GithubURL, arg.LiveURL, arg.IsOpenSource, arg.Status, time.Now(),
	)
	project, err = pgx.CollectOneRow(rows, rowToProject)

	switch {
	case err == nil:
		return project, nil
	case errors.Is(err, pgx.ErrNoRows):
		return project, apperrors.ErrProjectNotFound
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return project, apperrors.ErrProjectExists
		}
		return project, fmt.Errorf("db error: %w", err)
	}
}

const deleteProject = `-- name: DeleteProject
DELETE FROM projects WHERE id = $1
`

func (r *ProjectRepo) DeleteProject(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteProject, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

func collectProject(rows pgx.Rows) (models.Project, error) {
	project, err := pgx.CollectOneRow(rows, rowToProject)

	switch {
	case err == nil:
		return project, nil
	case errors.Is(err, pgx.ErrNoRows):
		return project, apperrors.ErrProjectNotFound
	default:
		return project, fmt.Errorf("db error: %w", err)
	}
}

func rowToProject(row pgx.CollectableRow) (models.Project, error) {
	var p models.Project
	var techStack []byte

	err := row.Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Title, &p.Slug, &p.Category,
		&p.Description, &p.DetailedDescription, &p.Technologies, &techStack,
		&p.Image, &p.Gallery, &p.Featured, &p.ProjectDate, &p.Tags,
		&p.GithubURL, &p.LiveURL, &p.IsOpenSource, &p.Status,
	)
	if err != nil {
		return p, err
	}

	if len(techStack) > 0 {
		if err := json.Unmarshal(techStack, &p.TechStack); err != nil {
			return p, fmt.Errorf("tech stack decoding error: %w", err)
		}
	}

	return p, nil
}

// marshalJSONB encodes v for a jsonb column, NULL when empty
func marshalJSONB[T any](v []T) ([]byte, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return json.Marshal(v)
}
