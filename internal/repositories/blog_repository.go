package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"ydadvisory/internal/models"
)

type BlogRepository struct {
	db *sqlx.DB
}

func NewBlogRepository(db *sqlx.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

const blogColumns = `id, title, slug, excerpt, content, author, tags, published, published_at, created_at, updated_at`

func (r *BlogRepository) Create(ctx context.Context, p *models.BlogPost) error {
	const q = `
		INSERT INTO blog_posts (title, slug, excerpt, content, author, tags, published, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertReturningID(ctx, r.db, q,
		p.Title, p.Slug, p.Excerpt, p.Content, p.Author, strings.Join(p.Tags, ","), p.Published,
		nullTime(p.PublishedAt), p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create blog post: %w", err)
	}
	p.ID = id
	return nil
}

func (r *BlogRepository) Update(ctx context.Context, p *models.BlogPost) error {
	const q = `
		UPDATE blog_posts
		SET title=?, slug=?, excerpt=?, content=?, author=?, tags=?, published=?, published_at=?, updated_at=?
		WHERE id=?`
	if err := execAffectingOne(ctx, r.db, q,
		p.Title, p.Slug, p.Excerpt, p.Content, p.Author, strings.Join(p.Tags, ","), p.Published,
		nullTime(p.PublishedAt), p.UpdatedAt.UTC(), p.ID); err != nil {
		return fmt.Errorf("update blog post: %w", err)
	}
	return nil
}

func (r *BlogRepository) GetByID(ctx context.Context, id int64) (*models.BlogPost, error) {
	var p models.BlogPost
	q := r.db.Rebind(`SELECT ` + blogColumns + ` FROM blog_posts WHERE id = ?`)
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		return nil, fmt.Errorf("get blog post: %w", mapError(err))
	}
	return &p, nil
}

func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var p models.BlogPost
	q := r.db.Rebind(`SELECT ` + blogColumns + ` FROM blog_posts WHERE slug = ?`)
	if err := r.db.GetContext(ctx, &p, q, slug); err != nil {
		return nil, fmt.Errorf("get blog post by slug: %w", mapError(err))
	}
	return &p, nil
}

// List returns newest posts first. Tags are matched whole, not by prefix.
func (r *BlogRepository) List(ctx context.Context, f models.BlogFilter, p models.Page) ([]models.BlogPost, int, error) {
	var conds []string
	var args []any
	if f.PublishedOnly {
		conds = append(conds, "published = ?")
		args = append(args, true)
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		conds = append(conds, "(',' || tags || ',') LIKE ?")
		args = append(args, "%,"+tag+",%")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM blog_posts`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count blog posts: %w", err)
	}
	out := []models.BlogPost{}
	q := r.db.Rebind(`SELECT ` + blogColumns + ` FROM blog_posts` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &out, q, append(args, p.Size, p.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("list blog posts: %w", err)
	}
	return out, total, nil
}

func (r *BlogRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "blog_posts", id); err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	return nil
}
