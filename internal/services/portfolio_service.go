package services

import (
	"context"
	"time"

	"ydadvisory/internal/models"
	"ydadvisory/internal/repositories"
)

type PortfolioService struct {
	Repo *repositories.PortfolioRepository
	now  func() time.Time
}

func NewPortfolioService(repo *repositories.PortfolioRepository) *PortfolioService {
	return &PortfolioService{Repo: repo, now: time.Now}
}

func validatePortfolioItem(it *models.PortfolioItem) error {
	errs := fieldErrors{}
	errs.require("title", it.Title)
	errs.require("client", it.Client)
	errs.maxLen("title", it.Title, 200)
	errs.maxLen("outcome", it.Outcome, 1000)
	return errs.err()
}

func (s *PortfolioService) Create(ctx context.Context, it *models.PortfolioItem) error {
	if err := validatePortfolioItem(it); err != nil {
		return err
	}
	now := s.now().UTC()
	it.CreatedAt, it.UpdatedAt = now, now
	return s.Repo.Create(ctx, it)
}

func (s *PortfolioService) Update(ctx context.Context, it *models.PortfolioItem) error {
	existing, err := s.Repo.GetByID(ctx, it.ID)
	if err != nil {
		return err
	}
	if err := validatePortfolioItem(it); err != nil {
		return err
	}
	it.CreatedAt = existing.CreatedAt
	it.UpdatedAt = s.now().UTC()
	return s.Repo.Update(ctx, it)
}

func (s *PortfolioService) GetByID(ctx context.Context, id int64) (*models.PortfolioItem, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *PortfolioService) List(ctx context.Context, featuredOnly bool, p models.Page) (models.ListResult[models.PortfolioItem], error) {
	items, total, err := s.Repo.List(ctx, featuredOnly, p)
	if err != nil {
		return models.ListResult[models.PortfolioItem]{}, err
	}
	return models.ListResult[models.PortfolioItem]{Items: items, Total: total, Page: p.Page, Size: p.Size}, nil
}

func (s *PortfolioService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
