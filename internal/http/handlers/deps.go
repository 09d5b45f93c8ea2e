package handlers

import (
	"github.com/jmoiron/sqlx"

	"velora/internal/api"
	"velora/internal/config"
	"velora/internal/repos"
	"velora/internal/services"
)

type Deps struct {
	HomeHandler     *HomeHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	WishlistHandler *WishlistHandler
	CompareHandler  *CompareHandler
	AuthHandler     *AuthHandler
	StaffHandler    *StaffHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, client *api.Client, auth *services.AuthService) *Deps {
	cartRepo := repos.NewCartRepo(db)
	wishRepo := repos.NewWishlistRepo(db)

	cartSvc := services.NewCartService(client, auth, cartRepo, nil)
	checkoutSvc := &services.CheckoutService{Cart: cartSvc, Remote: client, Session: auth}
	wishSvc := services.NewWishlistService(wishRepo)
	compareSvc := &services.CompareService{}

	return &Deps{
		HomeHandler:     &HomeHandler{Cart: cartSvc, Auth: auth},
		CartHandler:     &CartHandler{Cart: cartSvc, Catalog: client},
		CheckoutHandler: &CheckoutHandler{Checkout: checkoutSvc},
		WishlistHandler: &WishlistHandler{Wish: wishSvc, Catalog: client},
		CompareHandler:  &CompareHandler{Compare: compareSvc, Catalog: client},
		AuthHandler:     &AuthHandler{Auth: auth, Cart: cartSvc},
		StaffHandler:    &StaffHandler{Cart: cartSvc, Wish: wishRepo, Compare: compareSvc, Auth: auth},
	}
}
