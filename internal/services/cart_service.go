package services

import (
	"context"
	"errors"

	"mymat/internal/cart"
	"mymat/internal/domain"
	"mymat/internal/repos"
)

type CartService struct {
	Carts *cart.Registry
	Prods *repos.ProductRepo
}

func NewCartService(carts *cart.Registry, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

type CartView struct {
	Items  []domain.CartItem
	Totals domain.Totals
}

func (v CartView) Empty() bool { return len(v.Items) == 0 }

// Add puts one unit of the product in the session's cart, priced as the catalog has it now.
func (s *CartService) Add(ctx context.Context, sessionID, productID string) error {
	p, err := s.Prods.Get(ctx, productID)
	if errors.Is(err, repos.ErrNotFound) {
		return ErrUnknownProduct
	}
	if err != nil {
		return err
	}
	return s.Carts.With(ctx, sessionID, func(st *cart.Store) error { return st.Add(ctx, p) })
}

// Update sets a line's quantity; zero or less removes it.
func (s *CartService) Update(ctx context.Context, sessionID, productID string, qty int) error {
	return s.Carts.With(ctx, sessionID, func(st *cart.Store) error { return st.UpdateQuantity(ctx, productID, qty) })
}

func (s *CartService) Remove(ctx context.Context, sessionID, productID string) error {
	return s.Carts.With(ctx, sessionID, func(st *cart.Store) error { return st.Remove(ctx, productID) })
}

func (s *CartService) View(ctx context.Context, sessionID string) CartView {
	items, totals := s.Carts.Snapshot(ctx, sessionID)
	return CartView{Items: items, Totals: totals.Rounded()}
}
