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

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id, name, price, original_price, image, category, description,
    COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

// List returns the whole catalog, newest first.
func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, `
  SELECT`+productCols+`
  FROM products
  ORDER BY datetime(created_at) DESC, name`)
	return out, err
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, `
  SELECT`+productCols+`
  FROM products
  WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// Search matches q case-insensitively against name and category.
func (r *ProductRepo) Search(ctx context.Context, q string) ([]domain.Product, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return r.List(ctx)
	}
	like := likePattern(q)
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, `
  SELECT`+productCols+`
  FROM products
  WHERE LOWER(name) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\'
  ORDER BY datetime(created_at) DESC, name`, like, like)
	return out, err
}

// Create inserts p under a fresh id and returns it.
func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO products(id,name,price,original_price,image,category,description,created_at)
	  VALUES(?,?,?,?,?,?,?,CURRENT_TIMESTAMP)`,
		p.ID, p.Name, p.Price, p.OriginalPrice, p.Image, p.Category, p.Description)
	return p.ID, err
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
	  UPDATE products
	  SET name=?, price=?, original_price=?, image=?, category=?, description=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?`,
		p.Name, p.Price, p.OriginalPrice, p.Image, p.Category, p.Description, p.ID)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`)
	return n, err
}

// affected maps "no row touched" to ErrNotFound.
func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUnique(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
