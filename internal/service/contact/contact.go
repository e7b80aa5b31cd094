package contact

import (
	"context"

	"github.com/google/uuid"

	"github.com/akarpov/portfolio-api/internal/logger"
	"github.com/akarpov/portfolio-api/internal/mailer"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

type Service struct {
	submissions repository.ContactRepo
	mail        mailer.Mailer
	log         logger.Logger

	// Where new-submission notifications go. Empty disables them.
	adminEmail string
}

func NewService(submissions repository.ContactRepo, mail mailer.Mailer, adminEmail string, log logger.Logger) *Service {
	return &Service{
		submissions: submissions,
		mail:        mail,
		adminEmail:  adminEmail,
		log:         log,
	}
}

// Submit stores the form entry and notifies the site owner. The
// notification is best effort: the submission is already saved, a mail
// outage must not turn it into an error for the visitor.
func (s *Service) Submit(ctx context.Context, sub models.ContactSubmission) (models.ContactSubmission, error) {
	saved, err := s.submissions.CreateSubmission(ctx, sub)
	if err != nil {
		return models.ContactSubmission{}, err
	}

	if s.adminEmail != "" {
		msg := mailer.ContactNotification(s.adminEmail, saved.Name, saved.Email, saved.Subject, saved.Message)
		if err := s.mail.Send(ctx, msg); err != nil {
			s.log.Error("could not send contact notification", "submission_id", saved.ID, "error", err)
		}
	}

	return saved, nil
}

func (s *Service) List(ctx context.Context, f repository.SubmissionFilter) ([]models.ContactSubmission, int64, error) {
	return s.submissions.ListSubmissions(ctx, f)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) (models.ContactSubmission, error) {
	return s.submissions.UpdateSubmissionStatus(ctx, id, status)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.submissions.DeleteSubmission(ctx, id)
}
