package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ydadvisory/internal/models"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `id, name, position, bio, photo_url, email, linkedin_url, sort_order, active, created_at, updated_at`

func (r *TeamRepository) Create(ctx context.Context, m *models.TeamMember) error {
	const q = `
		INSERT INTO team_members (name, position, bio, photo_url, email, linkedin_url, sort_order, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertReturningID(ctx, r.db, q,
		m.Name, m.Position, m.Bio, m.PhotoURL, m.Email, m.LinkedInURL, m.SortOrder, m.Active,
		m.CreatedAt.UTC(), m.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create team member: %w", err)
	}
	m.ID = id
	return nil
}

func (r *TeamRepository) Update(ctx context.Context, m *models.TeamMember) error {
	const q = `
		UPDATE team_members
		SET name=?, position=?, bio=?, photo_url=?, email=?, linkedin_url=?, sort_order=?, active=?, updated_at=?
		WHERE id=?`
	if err := execAffectingOne(ctx, r.db, q,
		m.Name, m.Position, m.Bio, m.PhotoURL, m.Email, m.LinkedInURL, m.SortOrder, m.Active,
		m.UpdatedAt.UTC(), m.ID); err != nil {
		return fmt.Errorf("update team member: %w", err)
	}
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*models.TeamMember, error) {
	var m models.TeamMember
	q := r.db.Rebind(`SELECT ` + teamColumns + ` FROM team_members WHERE id = ?`)
	if err := r.db.GetContext(ctx, &m, q, id); err != nil {
		return nil, fmt.Errorf("get team member: %w", mapError(err))
	}
	return &m, nil
}

func (r *TeamRepository) List(ctx context.Context, activeOnly bool, p models.Page) ([]models.TeamMember, int, error) {
	where := ""
	var args []any
	if activeOnly {
		where = " WHERE active = ?"
		args = append(args, true)
	}
	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM team_members`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count team: %w", err)
	}
	out := []models.TeamMember{}
	q := r.db.Rebind(`SELECT ` + teamColumns + ` FROM team_members` + where + ` ORDER BY sort_order, id LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &out, q, append(args, p.Size, p.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("list team: %w", err)
	}
	return out, total, nil
}

func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "team_members", id); err != nil {
		return fmt.Errorf("delete team member: %w", err)
	}
	return nil
}
