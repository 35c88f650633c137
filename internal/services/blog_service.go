package services

import (
	"context"
	"strings"
	"time"

	"ydadvisory/internal/models"
	"ydadvisory/internal/render"
	"ydadvisory/internal/repositories"
)

type BlogService struct {
	Repo     *repositories.BlogRepository
	markdown *render.Markdown
	now      func() time.Time
}

func NewBlogService(repo *repositories.BlogRepository, md *render.Markdown) *BlogService {
	return &BlogService{Repo: repo, markdown: md, now: time.Now}
}

func normalizeTags(tags models.StringList) models.StringList {
	seen := map[string]bool{}
	var out models.StringList
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(t, ",", " ")))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func (s *BlogService) prepare(p *models.BlogPost) error {
	p.Slug = normalizeSlug(p.Slug, p.Title)
	p.Tags = normalizeTags(p.Tags)
	errs := fieldErrors{}
	errs.require("title", p.Title)
	errs.maxLen("title", p.Title, 200)
	errs.require("content", p.Content)
	errs.maxLen("excerpt", p.Excerpt, 500)
	if p.Slug == "" {
		errs["slug"] = "slug could not be derived from title"
	}
	if err := errs.err(); err != nil {
		return err
	}
	if p.Published && p.PublishedAt == nil {
		at := s.now().UTC()
		p.PublishedAt = &at
	}
	if !p.Published {
		p.PublishedAt = nil
	}
	return nil
}

func (s *BlogService) Create(ctx context.Context, p *models.BlogPost) error {
	if err := s.prepare(p); err != nil {
		return err
	}
	now := s.now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	return s.Repo.Create(ctx, p)
}

func (s *BlogService) Update(ctx context.Context, p *models.BlogPost) error {
	existing, err := s.Repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.Published && p.PublishedAt == nil && existing.PublishedAt != nil {
		p.PublishedAt = existing.PublishedAt
	}
	if err := s.prepare(p); err != nil {
		return err
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now().UTC()
	return s.Repo.Update(ctx, p)
}

func (s *BlogService) GetByID(ctx context.Context, id int64) (*models.BlogPost, error) {
	return s.Repo.GetByID(ctx, id)
}

// Read returns a post for display with its rendered HTML. Drafts are only
// visible when includeDrafts is set.
func (s *BlogService) Read(ctx context.Context, slug string, includeDrafts bool) (*models.BlogPost, error) {
	p, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.Published && !includeDrafts {
		return nil, repositories.ErrNotFound
	}
	if p.ContentHTML, err = s.markdown.HTML(p.Content); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *BlogService) List(ctx context.Context, f models.BlogFilter, p models.Page) (models.ListResult[models.BlogPost], error) {
	f.Tag = strings.ToLower(strings.TrimSpace(f.Tag))
	items, total, err := s.Repo.List(ctx, f, p)
	if err != nil {
		return models.ListResult[models.BlogPost]{}, err
	}
	return models.ListResult[models.BlogPost]{Items: items, Total: total, Page: p.Page, Size: p.Size}, nil
}

func (s *BlogService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
