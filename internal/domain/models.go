package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Slug      string `db:"slug" json:"slug"`
	CreatedAt string `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}

type Product struct {
	ID            string              `db:"id" json:"id"`
	Name          string              `db:"name" json:"name"`
	Price         decimal.Decimal     `db:"price" json:"price"`
	Image         string              `db:"image" json:"image"`
	Category      string              `db:"category" json:"category"` // label, matched exactly by filters
	Description   string              `db:"description" json:"description"`
	OriginalPrice decimal.NullDecimal `db:"original_price" json:"original_price"`
	CreatedAt     string              `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt     string              `db:"updated_at" json:"updated_at,omitempty"`
}

// OnSale reports whether an original price above the current price is set.
func (p Product) OnSale() bool {
	return p.OriginalPrice.Valid && p.OriginalPrice.Decimal.GreaterThan(p.Price)
}

// CartItem is a product snapshot taken when it was first added, plus a quantity (always >= 1).
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID              string          `db:"id" json:"id"`
	CustomerName    string          `db:"customer_name" json:"customer_name"`
	CustomerEmail   string          `db:"customer_email" json:"customer_email"`
	ShippingAddress string          `db:"shipping_address" json:"shipping_address"`
	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	Tax             decimal.Decimal `db:"tax" json:"tax"`
	Total           decimal.Decimal `db:"total" json:"total"`
	Status          OrderStatus     `db:"status" json:"status"`
	CreatedAt       string          `db:"created_at" json:"created_at"`
}

// OrderItem copies name, image and price at order time so later catalog edits don't rewrite history.
type OrderItem struct {
	ID           int64           `db:"id" json:"-"`
	OrderID      string          `db:"order_id" json:"order_id"`
	ProductID    string          `db:"product_id" json:"product_id"`
	ProductName  string          `db:"product_name" json:"product_name"`
	ProductImage string          `db:"product_image" json:"product_image"`
	Quantity     int             `db:"quantity" json:"quantity"`
	Price        decimal.Decimal `db:"price" json:"price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Settings struct {
	StoreName          string `db:"store_name"`
	SupportEmail       string `db:"support_email"`
	Currency           string `db:"currency"`
	Timezone           string `db:"timezone"`
	OrderNotifications bool   `db:"order_notifications"`
	PromoEmails        bool   `db:"promo_emails"`
	UpdatedAt          string `db:"updated_at"`
}

// Stats backs the admin dashboard.
type Stats struct {
	Products   int
	Categories int
	Orders     int
	Sales      []DaySales
}

type DaySales struct {
	Day   string          `db:"day"`
	Total decimal.Decimal `db:"total"`
}
