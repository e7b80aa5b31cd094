package newsletter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/mailer"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
)

type fakeSubRepo struct {
	subs map[uuid.UUID]models.Subscription
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{subs: map[uuid.UUID]models.Subscription{}}
}

func (r *fakeSubRepo) CreateSubscription(_ context.Context, email string) (models.Subscription, error) {
	email = strings.ToLower(email)
	for _, s := range r.subs {
		if s.Email == email {
			return models.Subscription{}, apperrors.ErrAlreadySubscribed
		}
	}
	sub := models.Subscription{
		ID:        uuid.New(),
		Email:     email,
		Status:    models.SubscriptionActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.subs[sub.ID] = sub
	return sub, nil
}

func (r *fakeSubRepo) SubscriptionByEmail(_ context.Context, email string) (models.Subscription, error) {
	for _, s := range r.subs {
		if s.Email == strings.ToLower(email) {
			return s, nil
		}
	}
	return models.Subscription{}, apperrors.ErrSubscriptionNotFound
}

func (r *fakeSubRepo) UpdateSubscriptionStatus(_ context.Context, id uuid.UUID, status models.SubscriptionStatus) (models.Subscription, error) {
	sub, ok := r.subs[id]
	if !ok {
		return models.Subscription{}, apperrors.ErrSubscriptionNotFound
	}
	sub.Status = status
	sub.UpdatedAt = time.Now()
	r.subs[id] = sub
	return sub, nil
}

func (r *fakeSubRepo) ListSubscriptions(_ context.Context, f repository.SubscriptionFilter) ([]models.Subscription, int64, error) {
	var out []models.Subscription
	for _, s := range r.subs {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSubRepo) ActiveEmails(_ context.Context) ([]string, error) {
	var out []string
	for _, s := range r.subs {
		if s.Status == models.SubscriptionActive {
			out = append(out, s.Email)
		}
	}
	return out, nil
}

func (r *fakeSubRepo) MarkEmailed(_ context.Context, at time.Time) error {
	for id, s := range r.subs {
		if s.Status == models.SubscriptionActive {
			stamp := at
			s.LastEmailSent = &stamp
			r.subs[id] = s
		}
	}
	return nil
}

type fakeMailer struct {
	sent []mailer.Message
	fail error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("new_email", func(t *testing.T) {
		repo := newFakeSubRepo()
		service := NewService(repo, &fakeMailer{}, "owner@example.com")

		sub, err := service.Subscribe(ctx, "Reader@Example.com")
		require.NoError(t, err)
		require.Equal(t, "reader@example.com", sub.Email)
		require.Equal(t, models.SubscriptionActive, sub.Status)
	})

	t.Run("active_twice", func(t *testing.T) {
		repo := newFakeSubRepo()
		service := NewService(repo, &fakeMailer{}, "owner@example.com")

		_, err := service.Subscribe(ctx, "reader@example.com")
		require.NoError(t, err)

		_, err = service.Subscribe(ctx, "reader@example.com")
		require.ErrorIs(t, err, apperrors.ErrAlreadySubscribed)
	})

	t.Run("reactivates_unsubscribed", func(t *testing.T) {
		repo := newFakeSubRepo()
		service := NewService(repo, &fakeMailer{}, "owner@example.com")

		sub, err := service.Subscribe(ctx, "reader@example.com")
		require.NoError(t, err)

		_, err = service.Unsubscribe(ctx, "reader@example.com")
		require.NoError(t, err)

		again, err := service.Subscribe(ctx, "reader@example.com")
		require.NoError(t, err)
		require.Equal(t, sub.ID, again.ID)
		require.Equal(t, models.SubscriptionActive, again.Status)
	})
}

func TestUnsubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		repo := newFakeSubRepo()
		service := NewService(repo, &fakeMailer{}, "owner@example.com")

		_, err := service.Subscribe(ctx, "reader@example.com")
		require.NoError(t, err)

		sub, err := service.Unsubscribe(ctx, "reader@example.com")
		require.NoError(t, err)
		require.Equal(t, models.SubscriptionUnsubscribed, sub.Status)
	})

	t.Run("unknown_email", func(t *testing.T) {
		repo := newFakeSubRepo()
		service := NewService(repo, &fakeMailer{}, "owner@example.com")

		_, err := service.Unsubscribe(ctx, "nobody@example.com")
		require.ErrorIs(t, err, apperrors.ErrSubscriptionNotFound)
	})
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run("bcc_blast_and_stamp", func(t *testing.T) {
		repo := newFakeSubRepo()
		mail := &fakeMailer{}
		service := NewService(repo, mail, "owner@example.com")

		_, err := service.Subscribe(ctx, "a@example.com")
		require.NoError(t, err)
		_, err = service.Subscribe(ctx, "b@example.com")
		require.NoError(t, err)
		_, err = service.Subscribe(ctx, "gone@example.com")
		require.NoError(t, err)
		_, err = service.Unsubscribe(ctx, "gone@example.com")
		require.NoError(t, err)

		n, err := service.Send(ctx, "News", "<p>hello</p>")
		require.NoError(t, err)
		require.Equal(t, 2, n)

		require.Len(t, mail.sent, 1)
		msg := mail.sent[0]
		require.Equal(t, []string{"owner@example.com"}, msg.To)
		require.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, msg.Bcc)

		for _, sub := range repo.subs {
			if sub.Status == models.SubscriptionActive {
				require.NotNil(t, sub.LastEmailSent)
			} else {
				require.Nil(t, sub.LastEmailSent)
			}
		}
	})

	t.Run("no_active_subscribers", func(t *testing.T) {
		service := NewService(newFakeSubRepo(), &fakeMailer{}, "owner@example.com")

		_, err := service.Send(ctx, "News", "<p>hello</p>")
		require.ErrorIs(t, err, apperrors.ErrNoActiveSubscribers)
	})

	t.Run("delivery_failure", func(t *testing.T) {
		repo := newFakeSubRepo()
		service := NewService(repo, &fakeMailer{fail: errors.New("smtp down")}, "owner@example.com")

		_, err := service.Subscribe(ctx, "a@example.com")
		require.NoError(t, err)

		_, err = service.Send(ctx, "News", "<p>hello</p>")
		require.ErrorIs(t, err, apperrors.ErrEmailDeliveryFailed)

		for _, sub := range repo.subs {
			require.Nil(t, sub.LastEmailSent)
		}
	})

	t.Run("missing_fields", func(t *testing.T) {
		service := NewService(newFakeSubRepo(), &fakeMailer{}, "owner@example.com")

		_, err := service.Send(ctx, "", "<p>hello</p>")
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)

		_, err = service.Send(ctx, "News", "")
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})
}
