package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/akarpov/portfolio-api/internal/models"
)

// Storage bundles every repository behind a single interface so services
// may depend on one injected value
type Storage interface {
	User() UserRepo
	Project() ProjectRepo
	Service() ServiceRepo
	Testimonial() TestimonialRepo
	Contact() ContactRepo
	Newsletter() NewsletterRepo
}

// Common list pagination. Zero values fall back to the first page of ten.
type ListParams struct {
	Page  int
	Limit int
}

func (p ListParams) Normalized() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	return p
}

func (p ListParams) Offset() int {
	p = p.Normalized()
	return (p.Page - 1) * p.Limit
}

type CreateUserParams struct {
	Email          string
	HashedPassword string
	FirstName      string
	LastName       string
	Role           models.Role
	LastLogin      *time.Time
}

// Optional user fields to update. Nil pointers are left untouched.
type UpdateUserParams struct {
	Email          *string
	FirstName      *string
	LastName       *string
	HashedPassword *string
	LastLogin      *time.Time
}

// User repository interface
//
// The email is the unique natural key and is matched case insensitively.
// Secret columns (password hash, pending reset token) are returned only
// when asked for with withSecrets.
type UserRepo interface {
	// Has to return apperrors.ErrUserAlreadyExists on duplicate email
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Both have to return apperrors.ErrUserNotFound if no such user
	UserByID(ctx context.Context, id uuid.UUID, withSecrets bool) (models.User, error)
	UserByEmail(ctx context.Context, email string, withSecrets bool) (models.User, error)

	// Has to return apperrors.ErrUserNotFound if no such user,
	// apperrors.ErrUserAlreadyExists if the new email is taken
	UpdateUser(ctx context.Context, id uuid.UUID, arg UpdateUserParams) (models.User, error)

	// Store the reset token hash with its expiry. Overwrites any pending
	// token: the most recently issued one wins.
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error

	// Drop the pending reset token, if any
	ClearResetToken(ctx context.Context, id uuid.UUID) error

	// Single atomic update: find the user holding tokenHash with expiry
	// strictly after now, set the new password hash and clear both reset
	// columns. Has to return apperrors.ErrResetTokenInvalid when nothing
	// matches (wrong token, expired or already consumed).
	ConsumeResetToken(ctx context.Context, tokenHash string, newHashedPassword string, now time.Time) (models.User, error)
}

type ProjectFilter struct {
	ListParams
	Category string
	Featured bool
	Search   string
}

type UpdateProjectParams struct {
	Title               *string
	Slug                *string
	Category            *string
	Description         *string
	DetailedDescription *string
	Technologies        []string
	TechStack           []models.TechStackEntry
	Image               *string
	Gallery             []string
	Featured            *bool
	ProjectDate         *time.Time
	Tags                []string
	GithubURL           *string
	LiveURL             *string
	IsOpenSource        *bool
	Status              *models.ProjectStatus
}

type ProjectRepo interface {
	// Has to return apperrors.ErrProjectExists on duplicate slug
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)

	// List matching projects newest first together with the total count
	ListProjects(ctx context.Context, f ProjectFilter) ([]models.Project, int64, error)

	// Distinct categories over all projects
	Categories(ctx context.Context) ([]string, error)

	ProjectByID(ctx context.Context, id uuid.UUID) (models.Project, error)
	ProjectBySlug(ctx context.Context, slug string) (models.Project, error)

	UpdateProject(ctx context.Context, id uuid.UUID, arg UpdateProjectParams) (models.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
}

type UpdateServiceParams struct {
	Title               *string
	Slug                *string
	Description         *string
	DetailedDescription *string
	Icon                *string
	Features            []string
	Price               *models.Price
	ClearPrice          bool
}

type ServiceRepo interface {
	// Has to return apperrors.ErrServiceExists on duplicate slug
	CreateService(ctx context.Context, s models.Service) (models.Service, error)

	ListServices(ctx context.Context, p ListParams) ([]models.Service, int64, error)

	ServiceByID(ctx context.Context, id uuid.UUID) (models.Service, error)
	ServiceBySlug(ctx context.Context, slug string) (models.Service, error)

	UpdateService(ctx context.Context, id uuid.UUID, arg UpdateServiceParams) (models.Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
}

type TestimonialFilter struct {
	ListParams
	Featured bool
}

type UpdateTestimonialParams struct {
	Name     *string
	Position *string
	Company  *string
	Content  *string
	Rating   *int
	Avatar   *string
	Featured *bool
}

type TestimonialRepo interface {
	CreateTestimonial(ctx context.Context, t models.Testimonial) (models.Testimonial, error)
	ListTestimonials(ctx context.Context, f TestimonialFilter) ([]models.Testimonial, int64, error)
	TestimonialByID(ctx context.Context, id uuid.UUID) (models.Testimonial, error)
	UpdateTestimonial(ctx context.Context, id uuid.UUID, arg UpdateTestimonialParams) (models.Testimonial, error)
	DeleteTestimonial(ctx context.Context, id uuid.UUID) error
}

type SubmissionFilter struct {
	ListParams
	Status models.SubmissionStatus
}

type ContactRepo interface {
	CreateSubmission(ctx context.Context, s models.ContactSubmission) (models.ContactSubmission, error)
	ListSubmissions(ctx context.Context, f SubmissionFilter) ([]models.ContactSubmission, int64, error)
	UpdateSubmissionStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) (models.ContactSubmission, error)
	DeleteSubmission(ctx context.Context, id uuid.UUID) error
}

type SubscriptionFilter struct {
	ListParams
	Status models.SubscriptionStatus
}

type NewsletterRepo interface {
	// Has to return apperrors.ErrAlreadySubscribed on duplicate email
	CreateSubscription(ctx context.Context, email string) (models.Subscription, error)

	// Has to return apperrors.ErrSubscriptionNotFound if absent
	SubscriptionByEmail(ctx context.Context, email string) (models.Subscription, error)

	UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, status models.SubscriptionStatus) (models.Subscription, error)

	ListSubscriptions(ctx context.Context, f SubscriptionFilter) ([]models.Subscription, int64, error)

	// Emails of all active subscribers, oldest first
	ActiveEmails(ctx context.Context) ([]string, error)

	// Stamp last_email_sent for every active subscription
	MarkEmailed(ctx context.Context, at time.Time) error
}
