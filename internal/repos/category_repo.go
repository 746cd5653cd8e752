package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mymat/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = `
    id,
    name,
    slug,
    COALESCE(created_at,'') AS created_at,
    COALESCE(updated_at,'') AS updated_at`

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.SelectContext(ctx, &out, `
  SELECT`+categoryCols+`
  FROM categories
  ORDER BY name`)
	return out, err
}

// Search matches q against name or slug, case-insensitively.
func (r *CategoryRepo) Search(ctx context.Context, q string) ([]domain.Category, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return r.List(ctx)
	}
	like := likePattern(q)
	out := []domain.Category{}
	err := r.db.SelectContext(ctx, &out, `
  SELECT`+categoryCols+`
  FROM categories
  WHERE LOWER(name) LIKE ? ESCAPE '\' OR slug LIKE ? ESCAPE '\'
  ORDER BY name`, like, like)
	return out, err
}

func (r *CategoryRepo) Get(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.GetContext(ctx, &c, `SELECT`+categoryCols+` FROM categories WHERE id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

func (r *CategoryRepo) Create(ctx context.Context, name string) (domain.Category, error) {
	c := domain.Category{ID: uuid.NewString(), Name: name, Slug: domain.Slugify(name)}
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO categories(id,name,slug,created_at) VALUES(?,?,?,CURRENT_TIMESTAMP)`,
		c.ID, c.Name, c.Slug)
	if isUnique(err) {
		return c, ErrConflict
	}
	return c, err
}

// Rename changes a category's name and slug, and relabels the products that carried the old name.
func (r *CategoryRepo) Rename(ctx context.Context, id, name string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var old string
		if err := tx.GetContext(ctx, &old, `SELECT name FROM categories WHERE id=?`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		_, err := tx.ExecContext(ctx, `
		  UPDATE categories SET name=?, slug=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
			name, domain.Slugify(name), id)
		if isUnique(err) {
			return ErrConflict
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
		  UPDATE products SET category=?, updated_at=CURRENT_TIMESTAMP WHERE category=?`, name, old)
		return err
	})
}

// Delete removes the category. Products keep their label.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id=?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *CategoryRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM categories`)
	return n, err
}
