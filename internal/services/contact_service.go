package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"ydadvisory/internal/models"
	"ydadvisory/internal/repositories"
	"ydadvisory/internal/valuation"
)

type ContactService struct {
	Repo     *repositories.ContactRepository
	email    EmailService
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

// NewContactService wires the inbox. email and notifier may be nil.
func NewContactService(repo *repositories.ContactRepository, email EmailService, notifier Notifier, log *zap.Logger) *ContactService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContactService{Repo: repo, email: email, notifier: notifier, log: log, now: time.Now}
}

func validateContact(c *models.Contact) error {
	errs := fieldErrors{}
	errs.require("name", c.Name)
	errs.require("email", c.Email)
	errs.require("message", c.Message)
	errs.maxLen("name", c.Name, 200)
	errs.maxLen("subject", c.Subject, 300)
	errs.maxLen("message", c.Message, 10000)
	if _, missing := errs["email"]; !missing && !valuation.ValidEmail(c.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	return errs.err()
}

// Submit stores a public enquiry and notifies the firm. Notification
// failures are logged, never returned.
func (s *ContactService) Submit(ctx context.Context, c *models.Contact) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if err := validateContact(c); err != nil {
		return err
	}
	c.Status = models.ContactNew
	c.CreatedAt = s.now().UTC()
	if err := s.Repo.Create(ctx, c); err != nil {
		return err
	}

	if s.email != nil {
		if err := s.email.SendContactNotification(c); err != nil {
			s.log.Warn("contact email notification failed", zap.Int64("contact_id", c.ID), zap.Error(err))
		}
	}
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, contactMessage(c)); err != nil {
			s.log.Warn("contact telegram notification failed", zap.Int64("contact_id", c.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *ContactService) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *ContactService) List(ctx context.Context, status models.ContactStatus, p models.Page) (models.ListResult[models.Contact], error) {
	items, total, err := s.Repo.List(ctx, status, p)
	if err != nil {
		return models.ListResult[models.Contact]{}, err
	}
	return models.ListResult[models.Contact]{Items: items, Total: total, Page: p.Page, Size: p.Size}, nil
}

func (s *ContactService) UpdateStatus(ctx context.Context, id int64, to models.ContactStatus) error {
	if _, known := ContactTransitions[to]; !known {
		return &ValidationError{Fields: map[string]string{"status": "unknown status " + string(to)}}
	}
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.Status == to {
		return nil
	}
	if !canTransition(c.Status, to, ContactTransitions) {
		return ErrInvalidTransition
	}
	return s.Repo.UpdateStatus(ctx, id, to)
}

func (s *ContactService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
