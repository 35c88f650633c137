package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ydadvisory/internal/models"
)

type ServiceRepository struct {
	db *sqlx.DB
}

func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

const serviceColumns = `id, title, slug, summary, description, icon, category, sort_order, active, created_at, updated_at`

func (r *ServiceRepository) Create(ctx context.Context, s *models.Service) error {
	const q = `
		INSERT INTO services (title, slug, summary, description, icon, category, sort_order, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertReturningID(ctx, r.db, q,
		s.Title, s.Slug, s.Summary, s.Description, s.Icon, s.Category, s.SortOrder, s.Active,
		s.CreatedAt.UTC(), s.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	s.ID = id
	return nil
}

func (r *ServiceRepository) Update(ctx context.Context, s *models.Service) error {
	const q = `
		UPDATE services
		SET title=?, slug=?, summary=?, description=?, icon=?, category=?, sort_order=?, active=?, updated_at=?
		WHERE id=?`
	if err := execAffectingOne(ctx, r.db, q,
		s.Title, s.Slug, s.Summary, s.Description, s.Icon, s.Category, s.SortOrder, s.Active,
		s.UpdatedAt.UTC(), s.ID); err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*models.Service, error) {
	var s models.Service
	q := r.db.Rebind(`SELECT ` + serviceColumns + ` FROM services WHERE id = ?`)
	if err := r.db.GetContext(ctx, &s, q, id); err != nil {
		return nil, fmt.Errorf("get service: %w", mapError(err))
	}
	return &s, nil
}

func (r *ServiceRepository) GetBySlug(ctx context.Context, slug string) (*models.Service, error) {
	var s models.Service
	q := r.db.Rebind(`SELECT ` + serviceColumns + ` FROM services WHERE slug = ?`)
	if err := r.db.GetContext(ctx, &s, q, slug); err != nil {
		return nil, fmt.Errorf("get service by slug: %w", mapError(err))
	}
	return &s, nil
}

// List returns services in display order. activeOnly hides retired offerings
// from the public site.
func (r *ServiceRepository) List(ctx context.Context, activeOnly bool, p models.Page) ([]models.Service, int, error) {
	where := ""
	var args []any
	if activeOnly {
		where = " WHERE active = ?"
		args = append(args, true)
	}
	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM services`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}
	out := []models.Service{}
	q := r.db.Rebind(`SELECT ` + serviceColumns + ` FROM services` + where + ` ORDER BY sort_order, id LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &out, q, append(args, p.Size, p.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}
	return out, total, nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "services", id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}
