package services

import (
	"context"
	"net/url"
	"time"

	"ydadvisory/internal/models"
	"ydadvisory/internal/repositories"
	"ydadvisory/internal/valuation"
)

type TeamService struct {
	Repo *repositories.TeamRepository
	now  func() time.Time
}

func NewTeamService(repo *repositories.TeamRepository) *TeamService {
	return &TeamService{Repo: repo, now: time.Now}
}

func validateTeamMember(m *models.TeamMember) error {
	errs := fieldErrors{}
	errs.require("name", m.Name)
	errs.require("position", m.Position)
	errs.maxLen("bio", m.Bio, 4000)
	if m.Email != "" && !valuation.ValidEmail(m.Email) {
		errs["email"] = "email is not a valid address"
	}
	for name, v := range map[string]string{"photo_url": m.PhotoURL, "linkedin_url": m.LinkedInURL} {
		if v == "" {
			continue
		}
		if u, err := url.Parse(v); err != nil || (u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "") {
			errs[name] = name + " must be an http(s) or relative URL"
		}
	}
	return errs.err()
}

func (s *TeamService) Create(ctx context.Context, m *models.TeamMember) error {
	if err := validateTeamMember(m); err != nil {
		return err
	}
	now := s.now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now
	return s.Repo.Create(ctx, m)
}

func (s *TeamService) Update(ctx context.Context, m *models.TeamMember) error {
	existing, err := s.Repo.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	if err := validateTeamMember(m); err != nil {
		return err
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = s.now().UTC()
	return s.Repo.Update(ctx, m)
}

func (s *TeamService) GetByID(ctx context.Context, id int64) (*models.TeamMember, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *TeamService) List(ctx context.Context, activeOnly bool, p models.Page) (models.ListResult[models.TeamMember], error) {
	items, total, err := s.Repo.List(ctx, activeOnly, p)
	if err != nil {
		return models.ListResult[models.TeamMember]{}, err
	}
	return models.ListResult[models.TeamMember]{Items: items, Total: total, Page: p.Page, Size: p.Size}, nil
}

func (s *TeamService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
