package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ydadvisory/internal/models"
)

type PortfolioRepository struct {
	db *sqlx.DB
}

func NewPortfolioRepository(db *sqlx.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

const portfolioColumns = `id, title, client, industry, description, outcome, image_url, deal_value, featured, completed_at, created_at, updated_at`

func (r *PortfolioRepository) Create(ctx context.Context, it *models.PortfolioItem) error {
	const q = `
		INSERT INTO portfolio_items (title, client, industry, description, outcome, image_url, deal_value, featured, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertReturningID(ctx, r.db, q,
		it.Title, it.Client, it.Industry, it.Description, it.Outcome, it.ImageURL, it.DealValue,
		it.Featured, nullTime(it.CompletedAt), it.CreatedAt.UTC(), it.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create portfolio item: %w", err)
	}
	it.ID = id
	return nil
}

func (r *PortfolioRepository) Update(ctx context.Context, it *models.PortfolioItem) error {
	const q = `
		UPDATE portfolio_items
		SET title=?, client=?, industry=?, description=?, outcome=?, image_url=?, deal_value=?,
		    featured=?, completed_at=?, updated_at=?
		WHERE id=?`
	if err := execAffectingOne(ctx, r.db, q,
		it.Title, it.Client, it.Industry, it.Description, it.Outcome, it.ImageURL, it.DealValue,
		it.Featured, nullTime(it.CompletedAt), it.UpdatedAt.UTC(), it.ID); err != nil {
		return fmt.Errorf("update portfolio item: %w", err)
	}
	return nil
}

func (r *PortfolioRepository) GetByID(ctx context.Context, id int64) (*models.PortfolioItem, error) {
	var it models.PortfolioItem
	q := r.db.Rebind(`SELECT ` + portfolioColumns + ` FROM portfolio_items WHERE id = ?`)
	if err := r.db.GetContext(ctx, &it, q, id); err != nil {
		return nil, fmt.Errorf("get portfolio item: %w", mapError(err))
	}
	return &it, nil
}

func (r *PortfolioRepository) List(ctx context.Context, featuredOnly bool, p models.Page) ([]models.PortfolioItem, int, error) {
	where := ""
	var args []any
	if featuredOnly {
		where = " WHERE featured = ?"
		args = append(args, true)
	}
	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM portfolio_items`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count portfolio: %w", err)
	}
	out := []models.PortfolioItem{}
	q := r.db.Rebind(`SELECT ` + portfolioColumns + ` FROM portfolio_items` + where + ` ORDER BY featured DESC, created_at DESC, id DESC LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &out, q, append(args, p.Size, p.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("list portfolio: %w", err)
	}
	return out, total, nil
}

func (r *PortfolioRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "portfolio_items", id); err != nil {
		return fmt.Errorf("delete portfolio item: %w", err)
	}
	return nil
}
