package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"mymat/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
    id, customer_name, customer_email, shipping_address, subtotal, tax, total, status,
    COALESCE(created_at,'') AS created_at`

// CreateWithItems writes the order header and all of its lines in one transaction.
func (r *OrderRepo) CreateWithItems(ctx context.Context, o domain.Order, items []domain.OrderItem) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
		  INSERT INTO orders
		    (id, customer_name, customer_email, shipping_address, subtotal, tax, total, status, created_at)
		  VALUES
		    (?,  ?,             ?,              ?,                ?,        ?,   ?,     ?,      COALESCE(NULLIF(?,''), CURRENT_TIMESTAMP))
		`, o.ID, o.CustomerName, o.CustomerEmail, o.ShippingAddress, o.Subtotal, o.Tax, o.Total, o.Status, o.CreatedAt); err != nil {
			return err
		}
		for _, it := range items {
			if _, err := tx.ExecContext(ctx, `
			  INSERT INTO order_items(order_id, product_id, product_name, product_image, quantity, price)
			  VALUES(?, ?, ?, ?, ?, ?)
			`, o.ID, it.ProductID, it.ProductName, it.ProductImage, it.Quantity, it.Price); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	if err := r.db.GetContext(ctx, &o, `SELECT`+orderCols+` FROM orders WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return o, nil, domain.ErrOrderNotFound
		}
		return o, nil, err
	}

	items := []domain.OrderItem{}
	if err := r.db.SelectContext(ctx, &items, `
		SELECT id, order_id, product_id, product_name, product_image, quantity, price
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, id); err != nil {
		return o, nil, err
	}
	return o, items, nil
}

func (r *OrderRepo) ListLatest(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT`+orderCols+`
		FROM orders
		ORDER BY datetime(created_at) DESC, id
		LIMIT ?
	`, limit)
	return out, err
}

// Search matches q against the order id or the customer email, case-insensitively.
func (r *OrderRepo) Search(ctx context.Context, q string, limit int) ([]domain.Order, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return r.ListLatest(ctx, limit)
	}
	if limit <= 0 {
		limit = 100
	}
	like := likePattern(q)
	out := []domain.Order{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT`+orderCols+`
		FROM orders
		WHERE LOWER(id) LIKE ? ESCAPE '\' OR LOWER(customer_email) LIKE ? ESCAPE '\'
		ORDER BY datetime(created_at) DESC, id
		LIMIT ?
	`, like, like, limit)
	return out, err
}

// UpdateStatus moves an order to `to` and returns the status it had before. The UPDATE only
// matches rows whose current status may legally precede `to`, so a concurrent change can't
// slip an illegal move through. Setting the current status again is a no-op.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, to domain.OrderStatus) (domain.OrderStatus, error) {
	var from domain.OrderStatus
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &from, `SELECT status FROM orders WHERE id = ?`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrOrderNotFound
			}
			return err
		}
		if from == to {
			return nil
		}
		preds := domain.Predecessors(to)
		if len(preds) == 0 {
			return domain.ErrIllegalTransition
		}
		query, args, err := sqlx.In(`UPDATE orders SET status = ? WHERE id = ? AND status IN (?)`, to, id, preds)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return domain.ErrIllegalTransition
		}
		return nil
	})
	return from, err
}

func (r *OrderRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM orders`)
	return n, err
}

// SalesByDay sums order totals per calendar day (UTC) from since onwards, skipping cancelled orders.
// Days without sales are absent.
func (r *OrderRepo) SalesByDay(ctx context.Context, since time.Time) ([]domain.DaySales, error) {
	out := []domain.DaySales{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT date(created_at) AS day, printf('%.2f', SUM(CAST(total AS REAL))) AS total
		FROM orders
		WHERE status <> 'cancelled' AND date(created_at) >= ?
		GROUP BY date(created_at)
		ORDER BY day
	`, since.UTC().Format(time.DateOnly))
	return out, err
}
