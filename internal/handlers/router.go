package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/akarpov/portfolio-api/internal/handlers/middleware"
	"github.com/akarpov/portfolio-api/internal/logger"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
	"github.com/akarpov/portfolio-api/internal/service/auth"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type RouterConfig struct {
	AuthService        authService
	ProjectService     projectService
	CatalogService     catalogService
	TestimonialService testimonialService
	ContactService     contactService
	NewsletterService  newsletterService

	DB     pinger
	Logger logger.Logger

	// Per-IP request budgets. Zero limits disable the corresponding
	// limiter, which the tests rely on.
	GlobalRateLimit  int
	GlobalRateWindow time.Duration
	AuthRateLimit    int
	AuthRateWindow   time.Duration

	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger

	requireAuth := middleware.Auth(cfg.AuthService)
	editorOnly := middleware.RequireRole(models.RoleAdmin, models.RoleEditor)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	withAuth := func(h http.Handler) http.Handler { return requireAuth(h) }
	withEditor := func(h http.Handler) http.Handler { return requireAuth(editorOnly(h)) }
	withAdmin := func(h http.Handler) http.Handler { return requireAuth(adminOnly(h)) }

	// Tighter budget for the endpoints worth brute-forcing
	withAuthRate := func(h http.Handler) http.Handler { return h }
	if cfg.AuthRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
		withAuthRate = limiter.Middleware
	}

	mux := http.NewServeMux()

	mux.Handle("POST /api/auth/register", handleRegister(cfg.AuthService, log))
	mux.Handle("POST /api/auth/login", withAuthRate(handleLogin(cfg.AuthService, log)))
	mux.Handle("POST /api/auth/refresh-token", handleRefreshToken(cfg.AuthService, log))
	mux.Handle("POST /api/auth/forgot-password", withAuthRate(handleForgotPassword(cfg.AuthService, log)))
	mux.Handle("POST /api/auth/reset-password", handleResetPassword(cfg.AuthService, log))
	mux.Handle("GET /api/auth/me", withAuth(handleMe()))
	mux.Handle("PUT /api/auth/me", withAuth(handleUpdateProfile(cfg.AuthService, log)))
	mux.Handle("PUT /api/auth/change-password", withAuth(handleChangePassword(cfg.AuthService, log)))

	mux.Handle("GET /api/projects", handleListProjects(cfg.ProjectService, log))
	mux.Handle("GET /api/projects/categories", handleProjectCategories(cfg.ProjectService, log))
	mux.Handle("GET /api/projects/{key}", handleGetProject(cfg.ProjectService, log))
	mux.Handle("POST /api/projects", withEditor(handleCreateProject(cfg.ProjectService, log)))
	mux.Handle("PUT /api/projects/{id}", withEditor(handleUpdateProject(cfg.ProjectService, log)))
	mux.Handle("DELETE /api/projects/{id}", withEditor(handleDeleteProject(cfg.ProjectService, log)))

	mux.Handle("GET /api/services", handleListServices(cfg.CatalogService, log))
	mux.Handle("GET /api/services/{key}", handleGetService(cfg.CatalogService, log))
	mux.Handle("POST /api/services", withEditor(handleCreateService(cfg.CatalogService, log)))
	mux.Handle("PUT /api/services/{id}", withEditor(handleUpdateService(cfg.CatalogService, log)))
	mux.Handle("DELETE /api/services/{id}", withEditor(handleDeleteService(cfg.CatalogService, log)))

	mux.Handle("GET /api/testimonials", handleListTestimonials(cfg.TestimonialService, log))
	mux.Handle("GET /api/testimonials/{id}", handleGetTestimonial(cfg.TestimonialService, log))
	mux.Handle("POST /api/testimonials", withAdmin(handleCreateTestimonial(cfg.TestimonialService, log)))
	mux.Handle("PUT /api/testimonials/{id}", withAdmin(handleUpdateTestimonial(cfg.TestimonialService, log)))
	mux.Handle("DELETE /api/testimonials/{id}", withAdmin(handleDeleteTestimonial(cfg.TestimonialService, log)))

	mux.Handle("POST /api/contact", handleSubmitContact(cfg.ContactService, log))
	mux.Handle("GET /api/contact/submissions", withAdmin(handleListSubmissions(cfg.ContactService, log)))
	mux.Handle("PATCH /api/contact/submissions/{id}", withAdmin(handleUpdateSubmissionStatus(cfg.ContactService, log)))
	mux.Handle("DELETE /api/contact/submissions/{id}", withAdmin(handleDeleteSubmission(cfg.ContactService, log)))

	mux.Handle("POST /api/newsletter/subscribe", handleSubscribe(cfg.NewsletterService, log))
	mux.Handle("POST /api/newsletter/unsubscribe", handleUnsubscribe(cfg.NewsletterService, log))
	mux.Handle("GET /api/newsletter/subscribers", withAdmin(handleListSubscribers(cfg.NewsletterService, log)))
	mux.Handle("POST /api/newsletter/send", withAdmin(handleSendNewsletter(cfg.NewsletterService, log)))

	mux.Handle("GET /api/health", handleHealth(cfg.DB))

	mds := []func(http.Handler) http.Handler{
		middleware.LoggerMiddleware(log),
		middleware.CORS(cfg.AllowedOrigins),
	}
	if cfg.GlobalRateLimit > 0 {
		mds = append(mds, middleware.NewRateLimiter(cfg.GlobalRateLimit, cfg.GlobalRateWindow).Middleware)
	}

	return chain(mux, mds...)
}

type authService interface {
	// Register user and sign it in right away
	// Has to return apperrors.ErrUserAlreadyExists if email is taken
	Register(ctx context.Context, arg auth.RegisterParams) (models.User, models.TokenPair, error)

	// Has to return apperrors.ErrInvalidCredentials for unknown email
	// and wrong password alike
	Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error)

	// Exchange valid refresh token for a new access token
	Refresh(ctx context.Context, refreshToken string) (models.IssuedToken, error)

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, newPassword string) (models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword string, newPassword string) error

	UserFromToken(ctx context.Context, accessToken string) (models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, arg auth.UpdateProfileParams) (models.User, error)
}

type projectService interface {
	Create(ctx context.Context, p models.Project) (models.Project, error)
	List(ctx context.Context, f repository.ProjectFilter) ([]models.Project, int64, error)
	Categories(ctx context.Context) ([]string, error)
	Get(ctx context.Context, key string) (models.Project, error)
	Update(ctx context.Context, id uuid.UUID, arg repository.UpdateProjectParams) (models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogService interface {
	Create(ctx context.Context, s models.Service) (models.Service, error)
	List(ctx context.Context, p repository.ListParams) ([]models.Service, int64, error)
	Get(ctx context.Context, key string) (models.Service, error)
	Update(ctx context.Context, id uuid.UUID, arg repository.UpdateServiceParams) (models.Service, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type testimonialService interface {
	Create(ctx context.Context, t models.Testimonial) (models.Testimonial, error)
	List(ctx context.Context, f repository.TestimonialFilter) ([]models.Testimonial, int64, error)
	Get(ctx context.Context, id uuid.UUID) (models.Testimonial, error)
	Update(ctx context.Context, id uuid.UUID, arg repository.UpdateTestimonialParams) (models.Testimonial, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactService interface {
	Submit(ctx context.Context, sub models.ContactSubmission) (models.ContactSubmission, error)
	List(ctx context.Context, f repository.SubmissionFilter) ([]models.ContactSubmission, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) (models.ContactSubmission, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type newsletterService interface {
	Subscribe(ctx context.Context, email string) (models.Subscription, error)
	Unsubscribe(ctx context.Context, email string) (models.Subscription, error)
	List(ctx context.Context, f repository.SubscriptionFilter) ([]models.Subscription, int64, error)
	Send(ctx context.Context, subject string, content string) (int, error)
}
