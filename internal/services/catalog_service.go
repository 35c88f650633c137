package services

import (
	"context"
	"time"

	"ydadvisory/internal/models"
	"ydadvisory/internal/repositories"
)

// CatalogService manages the advisory services offered on the site.
type CatalogService struct {
	Repo *repositories.ServiceRepository
	now  func() time.Time
}

func NewCatalogService(repo *repositories.ServiceRepository) *CatalogService {
	return &CatalogService{Repo: repo, now: time.Now}
}

func validateService(s *models.Service) error {
	errs := fieldErrors{}
	errs.require("title", s.Title)
	errs.maxLen("title", s.Title, 200)
	errs.maxLen("summary", s.Summary, 500)
	if s.Slug == "" {
		errs["slug"] = "slug could not be derived from title"
	}
	return errs.err()
}

func (s *CatalogService) Create(ctx context.Context, svc *models.Service) error {
	svc.Slug = normalizeSlug(svc.Slug, svc.Title)
	if err := validateService(svc); err != nil {
		return err
	}
	now := s.now().UTC()
	svc.CreatedAt, svc.UpdatedAt = now, now
	return s.Repo.Create(ctx, svc)
}

func (s *CatalogService) Update(ctx context.Context, svc *models.Service) error {
	existing, err := s.Repo.GetByID(ctx, svc.ID)
	if err != nil {
		return err
	}
	svc.Slug = normalizeSlug(svc.Slug, svc.Title)
	if err := validateService(svc); err != nil {
		return err
	}
	svc.CreatedAt = existing.CreatedAt
	svc.UpdatedAt = s.now().UTC()
	return s.Repo.Update(ctx, svc)
}

func (s *CatalogService) GetByID(ctx context.Context, id int64) (*models.Service, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *CatalogService) GetBySlug(ctx context.Context, slug string) (*models.Service, error) {
	return s.Repo.GetBySlug(ctx, slug)
}

func (s *CatalogService) List(ctx context.Context, activeOnly bool, p models.Page) (models.ListResult[models.Service], error) {
	items, total, err := s.Repo.List(ctx, activeOnly, p)
	if err != nil {
		return models.ListResult[models.Service]{}, err
	}
	return models.ListResult[models.Service]{Items: items, Total: total, Page: p.Page, Size: p.Size}, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
