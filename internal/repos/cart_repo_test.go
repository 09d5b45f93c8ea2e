package repos_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"velora/internal/domain"
	"velora/internal/repos"
)

func TestCartRepoRoundTrip(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	repo := repos.NewCartRepo(db)

	p := &domain.Product{
		ID:         "p1",
		Title:      "Canvas Tote",
		FinalPrice: decimal.RequireFromString("29.90"),
		Price:      decimal.RequireFromString("39.90"),
		BundleOffers: []domain.BundleOffer{
			{Quantity: 2, BundlePrice: decimal.RequireFromString("49.00"), IsActive: true},
		},
	}
	items := []domain.CartItem{
		{ID: "local-abc", ProductID: "p1", Quantity: 2, Product: p},
	}
	if err := repo.Replace(items); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 line, got %d", len(got))
	}
	it := got[0]
	if it.ID != "local-abc" || it.ProductID != "p1" || it.Quantity != 2 {
		t.Fatalf("bad line: %+v", it)
	}
	if it.Product == nil || !it.Product.FinalPrice.Equal(decimal.RequireFromString("29.90")) {
		t.Fatalf("product snapshot lost: %+v", it.Product)
	}
	if len(it.Product.BundleOffers) != 1 || !it.Product.BundleOffers[0].IsActive {
		t.Fatalf("bundle offers lost: %+v", it.Product.BundleOffers)
	}
	// pricing still works after a round trip
	if lt := it.LineTotal(); !lt.Equal(decimal.RequireFromString("49.00")) {
		t.Fatalf("line total after reload: %s", lt)
	}

	if err := repo.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty after clear, got %d", len(got))
	}
}

// Lines come back in the order they were stored, not in id order.
func TestCartRepoPreservesLineOrder(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	repo := repos.NewCartRepo(db)

	p := func(id string) *domain.Product {
		return &domain.Product{ID: id, FinalPrice: decimal.RequireFromString("10")}
	}
	items := []domain.CartItem{
		{ID: "local-zzz", ProductID: "p1", Quantity: 1, Product: p("p1")},
		{ID: "local-aaa", ProductID: "p2", Quantity: 1, Product: p("p2")},
		{ID: "local-mmm", ProductID: "p3", Quantity: 1, Product: p("p3")},
	}
	if err := repo.Replace(items); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 lines, got %d", len(got))
	}
	for i, want := range []string{"local-zzz", "local-aaa", "local-mmm"} {
		if got[i].ID != want {
			t.Fatalf("line %d: want %s, got %s", i, want, got[i].ID)
		}
	}
}

func TestSessionRepoRoundTrip(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	repo := repos.NewSessionRepo(db)

	tok, err := repo.Token()
	if err != nil || tok != "" {
		t.Fatalf("empty db should yield empty token, got %q err=%v", tok, err)
	}
	if err := repo.SaveToken("tok-1"); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveUser(&domain.User{ID: "u1", Email: "a@b.test", Name: "A"}); err != nil {
		t.Fatal(err)
	}
	tok, err = repo.Token()
	if err != nil || tok != "tok-1" {
		t.Fatalf("token round trip: %q err=%v", tok, err)
	}
	u, err := repo.User()
	if err != nil || u == nil || u.Email != "a@b.test" {
		t.Fatalf("user round trip: %+v err=%v", u, err)
	}
	if err := repo.Clear(); err != nil {
		t.Fatal(err)
	}
	tok, _ = repo.Token()
	if tok != "" {
		t.Fatalf("token survived clear: %q", tok)
	}
}
