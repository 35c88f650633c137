package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ydadvisory/internal/models"
)

type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `id, name, email, phone, company, subject, message, service, status, created_at`

func (r *ContactRepository) Create(ctx context.Context, c *models.Contact) error {
	const q = `
		INSERT INTO contacts (name, email, phone, company, subject, message, service, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertReturningID(ctx, r.db, q,
		c.Name, c.Email, c.Phone, c.Company, c.Subject, c.Message, c.Service, string(c.Status),
		c.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	c.ID = id
	return nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	var c models.Contact
	q := r.db.Rebind(`SELECT ` + contactColumns + ` FROM contacts WHERE id = ?`)
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		return nil, fmt.Errorf("get contact: %w", mapError(err))
	}
	return &c, nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id int64, status models.ContactStatus) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE contacts SET status = ? WHERE id = ?`), string(status), id)
	if err != nil {
		return fmt.Errorf("update contact status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update contact status: %w", ErrNotFound)
	}
	return nil
}

func (r *ContactRepository) List(ctx context.Context, status models.ContactStatus, p models.Page) ([]models.Contact, int, error) {
	where := ""
	var args []any
	if status != "" {
		where = " WHERE status = ?"
		args = append(args, string(status))
	}
	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM contacts`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}
	out := []models.Contact{}
	q := r.db.Rebind(`SELECT ` + contactColumns + ` FROM contacts` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &out, q, append(args, p.Size, p.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	return out, total, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "contacts", id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
