package services

import (
	"errors"
	"sync"

	"velora/internal/domain"
)

const compareLimit = 4

var ErrCompareFull = errors.New("comparison list is full")

// CompareService holds the product comparison tray in memory; comparisons
// do not survive a restart.
type CompareService struct {
	mu       sync.Mutex
	products []domain.Product
}

func (s *CompareService) Add(p domain.Product) error {
	if p.ID == "" {
		return ErrMissingProduct
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.products {
		if x.ID == p.ID {
			return nil
		}
	}
	if len(s.products) >= compareLimit {
		return ErrCompareFull
	}
	s.products = append(s.products, p)
	return nil
}

func (s *CompareService) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.products[:0]
	for _, p := range s.products {
		if p.ID != productID {
			out = append(out, p)
		}
	}
	s.products = out
}

func (s *CompareService) List() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *CompareService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
}
