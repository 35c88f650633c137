package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"ydadvisory/internal/models"
)

type NewsletterRepository struct {
	db *sqlx.DB
}

func NewNewsletterRepository(db *sqlx.DB) *NewsletterRepository {
	return &NewsletterRepository{db: db}
}

const subscriptionColumns = `id, email, name, status, token, created_at, unsubscribed_at`

func (r *NewsletterRepository) Create(ctx context.Context, s *models.Subscription) error {
	const q = `
		INSERT INTO newsletter_subscriptions (email, name, status, token, created_at, unsubscribed_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	id, err := insertReturningID(ctx, r.db, q,
		s.Email, s.Name, string(s.Status), s.Token, s.CreatedAt.UTC(), nullTime(s.UnsubscribedAt))
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	s.ID = id
	return nil
}

func (r *NewsletterRepository) GetByEmail(ctx context.Context, email string) (*models.Subscription, error) {
	var s models.Subscription
	q := r.db.Rebind(`SELECT ` + subscriptionColumns + ` FROM newsletter_subscriptions WHERE email = ?`)
	if err := r.db.GetContext(ctx, &s, q, email); err != nil {
		return nil, fmt.Errorf("get subscription: %w", mapError(err))
	}
	return &s, nil
}

func (r *NewsletterRepository) GetByToken(ctx context.Context, token string) (*models.Subscription, error) {
	var s models.Subscription
	q := r.db.Rebind(`SELECT ` + subscriptionColumns + ` FROM newsletter_subscriptions WHERE token = ?`)
	if err := r.db.GetContext(ctx, &s, q, token); err != nil {
		return nil, fmt.Errorf("get subscription by token: %w", mapError(err))
	}
	return &s, nil
}

// SetStatus flips a subscription on or off. unsubscribedAt is cleared when
// re-subscribing.
func (r *NewsletterRepository) SetStatus(ctx context.Context, id int64, status models.SubscriptionStatus, name string, at *time.Time) error {
	const q = `UPDATE newsletter_subscriptions SET status = ?, name = ?, unsubscribed_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), string(status), name, nullTime(at), id)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update subscription: %w", ErrNotFound)
	}
	return nil
}

func (r *NewsletterRepository) List(ctx context.Context, status models.SubscriptionStatus, p models.Page) ([]models.Subscription, int, error) {
	where := ""
	var args []any
	if status != "" {
		where = " WHERE status = ?"
		args = append(args, string(status))
	}
	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM newsletter_subscriptions`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count subscriptions: %w", err)
	}
	out := []models.Subscription{}
	q := r.db.Rebind(`SELECT ` + subscriptionColumns + ` FROM newsletter_subscriptions` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &out, q, append(args, p.Size, p.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}
	return out, total, nil
}

func (r *NewsletterRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "newsletter_subscriptions", id); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}
