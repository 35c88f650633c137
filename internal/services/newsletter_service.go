package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"ydadvisory/internal/models"
	"ydadvisory/internal/repositories"
	"ydadvisory/internal/utils"
	"ydadvisory/internal/valuation"
)

type NewsletterService struct {
	Repo  *repositories.NewsletterRepository
	email EmailService
	// UnsubscribeURL is prefixed to the token in welcome emails.
	UnsubscribeURL string
	log            *zap.Logger
	now            func() time.Time
}

func NewNewsletterService(repo *repositories.NewsletterRepository, email EmailService, unsubscribeURL string, log *zap.Logger) *NewsletterService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NewsletterService{Repo: repo, email: email, UnsubscribeURL: unsubscribeURL, log: log, now: time.Now}
}

// Subscribe adds an address, or reactivates it if it unsubscribed earlier.
// Subscribing an active address again is a no-op that returns the existing
// record.
func (s *NewsletterService) Subscribe(ctx context.Context, email, name string) (*models.Subscription, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if !valuation.ValidEmail(email) {
		return nil, &ValidationError{Fields: map[string]string{"email": "Please enter a valid email address"}}
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Status == models.SubscriptionActive {
			return existing, nil
		}
		if name == "" {
			name = existing.Name
		}
		if err := s.Repo.SetStatus(ctx, existing.ID, models.SubscriptionActive, name, nil); err != nil {
			return nil, err
		}
		existing.Status = models.SubscriptionActive
		existing.Name = name
		existing.UnsubscribedAt = nil
		s.welcome(existing)
		return existing, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	token, err := utils.NewToken(16)
	if err != nil {
		return nil, err
	}
	sub := &models.Subscription{
		Email:     email,
		Name:      name,
		Status:    models.SubscriptionActive,
		Token:     token,
		CreatedAt: s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, sub); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			// lost a race with a concurrent subscribe of the same address
			return s.Repo.GetByEmail(ctx, email)
		}
		return nil, err
	}
	s.welcome(sub)
	return sub, nil
}

func (s *NewsletterService) welcome(sub *models.Subscription) {
	if s.email == nil {
		return
	}
	if err := s.email.SendNewsletterWelcome(sub, s.UnsubscribeURL+sub.Token); err != nil {
		s.log.Warn("newsletter welcome email failed", zap.String("email", sub.Email), zap.Error(err))
	}
}

// Unsubscribe deactivates the subscription owning token. Repeating it is
// harmless.
func (s *NewsletterService) Unsubscribe(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return repositories.ErrNotFound
	}
	sub, err := s.Repo.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if sub.Status == models.SubscriptionUnsubscribed {
		return nil
	}
	at := s.now().UTC()
	return s.Repo.SetStatus(ctx, sub.ID, models.SubscriptionUnsubscribed, sub.Name, &at)
}

func (s *NewsletterService) List(ctx context.Context, status models.SubscriptionStatus, p models.Page) (models.ListResult[models.Subscription], error) {
	items, total, err := s.Repo.List(ctx, status, p)
	if err != nil {
		return models.ListResult[models.Subscription]{}, err
	}
	return models.ListResult[models.Subscription]{Items: items, Total: total, Page: p.Page, Size: p.Size}, nil
}

func (s *NewsletterService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
