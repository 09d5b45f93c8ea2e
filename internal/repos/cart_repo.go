package repos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"velora/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type cartItemRow struct {
	ID          string `db:"id"`
	ProductID   string `db:"product_id"`
	Qty         int    `db:"qty"`
	ProductJSON string `db:"product_json"`
}

// Load returns the persisted guest lines in insertion order. Rows whose
// product snapshot no longer parses are skipped rather than failing the
// whole cart.
func (r *CartRepo) Load() ([]domain.CartItem, error) {
	var rows []cartItemRow
	if err := r.db.Select(&rows, `SELECT id, product_id, qty, product_json FROM cart_items ORDER BY position`); err != nil {
		return nil, err
	}
	items := make([]domain.CartItem, 0, len(rows))
	for _, row := range rows {
		var p domain.Product
		if err := json.Unmarshal([]byte(row.ProductJSON), &p); err != nil {
			continue
		}
		items = append(items, domain.CartItem{ID: row.ID, ProductID: row.ProductID, Quantity: row.Qty, Product: &p})
	}
	return items, nil
}

// Replace rewrites the stored lines wholesale. Called after every guest
// mutation so the cart survives a restart.
func (r *CartRepo) Replace(items []domain.CartItem) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM cart_items`); err != nil {
		return err
	}
	for i, it := range items {
		pj, err := json.Marshal(it.Product)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO cart_items(id, position, product_id, qty, product_json, created_at, updated_at)
			VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		`, it.ID, i, it.ProductID, it.Quantity, string(pj)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *CartRepo) Clear() error {
	_, err := r.db.Exec(`DELETE FROM cart_items`)
	return err
}
