package repos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"velora/internal/domain"
)

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) Add(p domain.Product) error {
	pj, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
		INSERT INTO wishlist_items(product_id, product_json, created_at)
		VALUES(?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(product_id) DO NOTHING
	`, p.ID, string(pj))
	return err
}

func (r *WishlistRepo) Remove(productID string) error {
	_, err := r.db.Exec(`DELETE FROM wishlist_items WHERE product_id = ?`, productID)
	return err
}

func (r *WishlistRepo) Has(productID string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM wishlist_items WHERE product_id = ?`, productID); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *WishlistRepo) List() ([]domain.Product, error) {
	var blobs []string
	if err := r.db.Select(&blobs, `SELECT product_json FROM wishlist_items ORDER BY created_at`); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(blobs))
	for _, b := range blobs {
		var p domain.Product
		if err := json.Unmarshal([]byte(b), &p); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *WishlistRepo) Clear() error {
	_, err := r.db.Exec(`DELETE FROM wishlist_items`)
	return err
}
