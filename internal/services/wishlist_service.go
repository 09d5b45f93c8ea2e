package services

import (
	"velora/internal/domain"
	"velora/internal/repos"
)

// WishlistService keeps saved products in local storage. The wishlist is
// device-local like the guest cart; it is never mirrored to the server.
type WishlistService struct {
	Repo *repos.WishlistRepo
}

func NewWishlistService(r *repos.WishlistRepo) *WishlistService { return &WishlistService{Repo: r} }

func (s *WishlistService) Save(p domain.Product) error {
	if p.ID == "" {
		return ErrMissingProduct
	}
	return s.Repo.Add(p)
}

func (s *WishlistService) Unsave(productID string) error {
	return s.Repo.Remove(productID)
}

// Toggle saves the product if absent, removes it if present, and reports
// whether it is saved afterwards.
func (s *WishlistService) Toggle(p domain.Product) (bool, error) {
	if p.ID == "" {
		return false, ErrMissingProduct
	}
	has, err := s.Repo.Has(p.ID)
	if err != nil {
		return false, err
	}
	if has {
		return false, s.Repo.Remove(p.ID)
	}
	return true, s.Repo.Add(p)
}

func (s *WishlistService) List() ([]domain.Product, error) {
	return s.Repo.List()
}
