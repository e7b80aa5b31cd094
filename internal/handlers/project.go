package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/handlers/render"
	"github.com/akarpov/portfolio-api/internal/logger"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

func handleListProjects(s projectService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := repository.ProjectFilter{
			ListParams: listParamsFromQuery(r),
			Category:   query.Get("category"),
			Featured:   query.Get("featured") == "true",
			Search:     query.Get("search"),
		}

		projects, total, err := s.List(r.Context(), filter)
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, newListResponse(projects, filter.ListParams, total))
	})
}

func handleProjectCategories(s projectService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		categories, err := s.Categories(r.Context())
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, map[string][]string{"categories": categories})
	})
}

func handleGetProject(s projectService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		project, err := s.Get(r.Context(), r.PathValue("key"))
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, project)
	})
}

func handleCreateProject(s projectService, log logger.Logger) http.Handler {
	type request struct {
		Title               string                  `json:"title" validate:"required,max=200"`
		Slug                string                  `json:"slug" validate:"omitempty,max=200"`
		Category            string                  `json:"category" validate:"required,max=100"`
		Description         string                  `json:"description" validate:"required"`
		DetailedDescription string                  `json:"detailedDescription"`
		Technologies        []string                `json:"technologies"`
		TechStack           []models.TechStackEntry `json:"techStack"`
		Image               string                  `json:"image"`
		Gallery             []string                `json:"gallery"`
		Featured            bool                    `json:"featured"`
		ProjectDate         time.Time               `json:"projectDate"`
		Tags                []string                `json:"tags"`
		GithubURL           string                  `json:"githubUrl" validate:"omitempty,url"`
		LiveURL             string                  `json:"liveUrl" validate:"omitempty,url"`
		IsOpenSource        bool                    `json:"isOpenSource"`
		Status              models.ProjectStatus    `json:"status" validate:"omitempty,oneof=active inactive"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		projectDate := req.ProjectDate
		if projectDate.IsZero() {
			projectDate = time.Now()
		}

		project, err := s.Create(r.Context(), models.Project{
			Title:               req.Title,
			Slug:                req.Slug,
			Category:            req.Category,
			Description:         req.Description,
			DetailedDescription: req.DetailedDescription,
			Technologies:        req.Technologies,
			TechStack:           req.TechStack,
			Image:               req.Image,
			Gallery:             req.Gallery,
			Featured:            req.Featured,
			ProjectDate:         projectDate,
			Tags:                req.Tags,
			GithubURL:           req.GithubURL,
			LiveURL:             req.LiveURL,
			IsOpenSource:        req.IsOpenSource,
			Status:              req.Status,
		})
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSONStatus(w, project, http.StatusCreated)
	})
}

func handleUpdateProject(s projectService, log logger.Logger) http.Handler {
	type request struct {
		Title               *string                 `json:"title" validate:"omitempty,max=200"`
		Slug                *string                 `json:"slug" validate:"omitempty,max=200"`
		Category            *string                 `json:"category" validate:"omitempty,max=100"`
		Description         *string                 `json:"description"`
		DetailedDescription *string                 `json:"detailedDescription"`
		Technologies        []string                `json:"technologies"`
		TechStack           []models.TechStackEntry `json:"techStack"`
		Image               *string                 `json:"image"`
		Gallery             []string                `json:"gallery"`
		Featured            *bool                   `json:"featured"`
		ProjectDate         *time.Time              `json:"projectDate"`
		Tags                []string                `json:"tags"`
		GithubURL           *string                 `json:"githubUrl" validate:"omitempty,url"`
		LiveURL             *string                 `json:"liveUrl" validate:"omitempty,url"`
		IsOpenSource        *bool                   `json:"isOpenSource"`
		Status              *models.ProjectStatus   `json:"status" validate:"omitempty,oneof=active inactive"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			respondError(w, log, apperrors.ErrProjectNotFound)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		project, err := s.Update(r.Context(), id, repository.UpdateProjectParams{
			Title:               req.Title,
			Slug:                req.Slug,
			Category:            req.Category,
			Description:         req.Description,
			DetailedDescription: req.DetailedDescription,
			Technologies:        req.Technologies,
			TechStack:           req.TechStack,
			Image:               req.Image,
			Gallery:             req.Gallery,
			Featured:            req.Featured,
			ProjectDate:         req.ProjectDate,
			Tags:                req.Tags,
			GithubURL:           req.GithubURL,
			LiveURL:             req.LiveURL,
			IsOpenSource:        req.IsOpenSource,
			Status:              req.Status,
		})
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, project)
	})
}

func handleDeleteProject(s projectService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			respondError(w, log, apperrors.ErrProjectNotFound)
			return
		}

		if err := s.Delete(r.Context(), id); err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, messageResponse{Message: "Project deleted"})
	})
}
