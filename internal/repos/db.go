package repos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	applog "mymat/internal/log"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps q for a substring match; pair it with ESCAPE '\'.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// ErrConflict is returned when a unique name or email is already taken.
var ErrConflict = errors.New("already exists")

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection: sqlite serializes writers anyway and ":memory:" is per connection
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	if err := seedSettings(db); err != nil {
		return nil, fmt.Errorf("seed settings: %w", err)
	}
	if err := seedUsers(db); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Products; category is the label shown on the storefront, money is kept as decimal text
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price TEXT NOT NULL,
  original_price TEXT,
  image TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_name       ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Serialized session carts (cart backend "sql")
CREATE TABLE IF NOT EXISTS cart_snapshots(
  cart_key TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  updated_at TEXT
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  shipping_address TEXT NOT NULL,
  subtotal TEXT NOT NULL,
  tax TEXT NOT NULL,
  total TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','processing','shipped','delivered','cancelled')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Line items keep their own copy of the product so deleting a product leaves history intact
CREATE TABLE IF NOT EXISTS order_items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  product_image TEXT NOT NULL DEFAULT '',
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Store settings, a single row
CREATE TABLE IF NOT EXISTS settings(
  id INTEGER PRIMARY KEY CHECK (id = 1),
  store_name TEXT NOT NULL,
  support_email TEXT NOT NULL,
  currency TEXT NOT NULL,
  timezone TEXT NOT NULL,
  order_notifications INTEGER NOT NULL DEFAULT 1,
  promo_emails INTEGER NOT NULL DEFAULT 0,
  updated_at TEXT
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Info(nil, "seed.catalog", nil)

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT INTO categories(id,name,slug) VALUES
	  ('cat-persian','Persian','persian'),
	  ('cat-modern','Modern','modern'),
	  ('cat-turkish','Turkish','turkish'),
	  ('cat-shag','Shag','shag'),
	  ('cat-moroccan','Moroccan','moroccan'),
	  ('cat-jute','Jute','jute'),
	  ('cat-kids','Kids','kids')`); err != nil {
		return err
	}

	if _, err := tx.Exec(`INSERT INTO products(id,name,price,original_price,image,category,description) VALUES
	  ('mat-royal-persian','Royal Persian Prayer Mat','189.00','226.80','/static/img/royal-persian.jpg','Persian','Hand-knotted wool with a silk-accented mihrab border.'),
	  ('mat-tabriz','Tabriz Medallion Mat','149.50',NULL,'/static/img/tabriz.jpg','Persian','Classic Tabriz medallion in deep crimson and ivory.'),
	  ('mat-minimal-line','Minimal Line Mat','79.00',NULL,'/static/img/minimal-line.jpg','Modern','Low-pile mat with a single gold arch on sand.'),
	  ('mat-anatolia','Anatolia Kilim Mat','99.00','118.80','/static/img/anatolia.jpg','Turkish','Flat-woven kilim with Anatolian geometric motifs.'),
	  ('mat-cloud-shag','Cloud Shag Mat','119.00',NULL,'/static/img/cloud-shag.jpg','Shag','Thick padded shag for long prayers.'),
	  ('mat-fez','Fez Berber Mat','129.00',NULL,'/static/img/fez.jpg','Moroccan','Berber diamond pattern on undyed wool.'),
	  ('mat-jute-travel','Jute Travel Mat','39.99',NULL,'/static/img/jute-travel.jpg','Jute','Light natural jute that folds into a pouch.'),
	  ('mat-little-stars','Little Stars Kids Mat','34.00','40.80','/static/img/little-stars.jpg','Kids','Soft padded mat sized for children.')`); err != nil {
		return err
	}

	return tx.Commit()
}

func seedSettings(db *sqlx.DB) error {
	_, err := db.Exec(`
		INSERT INTO settings(id,store_name,support_email,currency,timezone,order_notifications,promo_emails,updated_at)
		VALUES(1,'myMat','support@mymat.test','USD','UTC',1,0,CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO NOTHING`)
	return err
}

// seedUsers ensures one USER and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) (u, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}, err
	}

	var users []u
	for _, spec := range [][4]string{
		{"u-amina", "amina@mymat.test", "Amina", "USER"},
		{"u-admin", "admin@mymat.test", "Admin", "ADMIN"},
	} {
		var exists int
		if err := db.Get(&exists, `SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?)`, spec[1]); err != nil {
			return err
		}
		if exists > 0 {
			continue
		}
		x, err := mk(spec[0], spec[1], spec[2], spec[3], "Passw0rd!")
		if err != nil {
			return err
		}
		users = append(users, x)
	}
	if len(users) == 0 {
		return nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// withTx runs fn inside a transaction, committing only when fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
