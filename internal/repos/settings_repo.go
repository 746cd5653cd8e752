package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"mymat/internal/domain"
)

type SettingsRepo struct{ db *sqlx.DB }

func NewSettingsRepo(db *sqlx.DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) Get(ctx context.Context) (domain.Settings, error) {
	var s domain.Settings
	err := r.db.GetContext(ctx, &s, `
		SELECT store_name, support_email, currency, timezone, order_notifications, promo_emails,
		       COALESCE(updated_at,'') AS updated_at
		FROM settings WHERE id = 1`)
	return s, err
}

func (r *SettingsRepo) Save(ctx context.Context, s domain.Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings(id, store_name, support_email, currency, timezone, order_notifications, promo_emails, updated_at)
		VALUES(1, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
		  store_name = excluded.store_name,
		  support_email = excluded.support_email,
		  currency = excluded.currency,
		  timezone = excluded.timezone,
		  order_notifications = excluded.order_notifications,
		  promo_emails = excluded.promo_emails,
		  updated_at = CURRENT_TIMESTAMP
	`, s.StoreName, s.SupportEmail, s.Currency, s.Timezone, s.OrderNotifications, s.PromoEmails)
	return err
}
