package newsletter

import (
	"context"
	"errors"
	"time"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/mailer"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

type Service struct {
	subscriptions repository.NewsletterRepo
	mail          mailer.Mailer

	// From address used for newsletter blasts, recipients go into Bcc
	from string
}

func NewService(subscriptions repository.NewsletterRepo, mail mailer.Mailer, from string) *Service {
	return &Service{subscriptions: subscriptions, mail: mail, from: from}
}

// Subscribe adds the email to the list. Someone who unsubscribed earlier
// is silently reactivated; an already active subscriber gets
// apperrors.ErrAlreadySubscribed.
func (s *Service) Subscribe(ctx context.Context, email string) (models.Subscription, error) {
	sub, err := s.subscriptions.CreateSubscription(ctx, email)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, apperrors.ErrAlreadySubscribed) {
		return models.Subscription{}, err
	}

	existing, lookupErr := s.subscriptions.SubscriptionByEmail(ctx, email)
	if lookupErr != nil {
		return models.Subscription{}, lookupErr
	}
	if existing.Status == models.SubscriptionActive {
		return models.Subscription{}, apperrors.ErrAlreadySubscribed
	}

	return s.subscriptions.UpdateSubscriptionStatus(ctx, existing.ID, models.SubscriptionActive)
}

func (s *Service) Unsubscribe(ctx context.Context, email string) (models.Subscription, error) {
	sub, err := s.subscriptions.SubscriptionByEmail(ctx, email)
	if err != nil {
		return models.Subscription{}, err
	}
	return s.subscriptions.UpdateSubscriptionStatus(ctx, sub.ID, models.SubscriptionUnsubscribed)
}

func (s *Service) List(ctx context.Context, f repository.SubscriptionFilter) ([]models.Subscription, int64, error) {
	return s.subscriptions.ListSubscriptions(ctx, f)
}

// Send mails the content to every active subscriber in one message with
// the list hidden in Bcc, then stamps their last_email_sent.
func (s *Service) Send(ctx context.Context, subject string, content string) (int, error) {
	if subject == "" || content == "" {
		return 0, apperrors.ErrInvalidRequest
	}

	emails, err := s.subscriptions.ActiveEmails(ctx)
	if err != nil {
		return 0, err
	}
	if len(emails) == 0 {
		return 0, apperrors.ErrNoActiveSubscribers
	}

	msg := mailer.Newsletter(s.from, emails, subject, content)
	if err := s.mail.Send(ctx, msg); err != nil {
		return 0, apperrors.ErrEmailDeliveryFailed
	}

	if err := s.subscriptions.MarkEmailed(ctx, time.Now()); err != nil {
		return 0, err
	}

	return len(emails), nil
}
