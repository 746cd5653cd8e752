package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"mymat/internal/cart"
)

// CartRepo stores serialized session carts in the cart_snapshots table.
type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

var _ cart.Storage = (*CartRepo)(nil)

func (r *CartRepo) Load(ctx context.Context, key string) ([]byte, error) {
	var payload string
	if err := r.db.GetContext(ctx, &payload, `SELECT payload FROM cart_snapshots WHERE cart_key = ?`, key); err != nil {
		if notFound(err) == ErrNotFound {
			return nil, cart.ErrNotFound
		}
		return nil, err
	}
	return []byte(payload), nil
}

func (r *CartRepo) Save(ctx context.Context, key string, data []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_snapshots(cart_key, payload, updated_at)
		VALUES(?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(cart_key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`, key, string(data))
	return err
}
