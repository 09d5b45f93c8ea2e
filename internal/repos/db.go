package repos

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// OpenDB opens the local companion database. It holds only device-local
// state: guest cart lines, the wishlist and the session token. It is not
// keyed per user; switching accounts on the same device keeps the previous
// guest cart.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Guest cart lines. The coupon is intentionally not persisted.
CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  product_id TEXT NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  product_json TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_cart_items_product ON cart_items(product_id);

-- Saved products.
CREATE TABLE IF NOT EXISTS wishlist_items(
  product_id TEXT PRIMARY KEY,
  product_json TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Small key/value store for the bearer token and user snapshot.
CREATE TABLE IF NOT EXISTS session(
  k TEXT PRIMARY KEY,
  v TEXT NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}
