package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"mymat/internal/cart"
	"mymat/internal/domain"
	applog "mymat/internal/log"
	"mymat/internal/metrics"
	"mymat/internal/validate"
)

// OrderWriter persists an order and its lines atomically.
type OrderWriter interface {
	CreateWithItems(ctx context.Context, o domain.Order, items []domain.OrderItem) error
}

type CheckoutForm struct {
	Name    string
	Email   string
	Address string
}

type Receipt struct {
	OrderID string
	Totals  domain.Totals
}

type CheckoutService struct {
	Carts   *cart.Registry
	Orders  OrderWriter
	Metrics *metrics.Metrics

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewCheckoutService(carts *cart.Registry, orders OrderWriter, m *metrics.Metrics) *CheckoutService {
	return &CheckoutService{Carts: carts, Orders: orders, Metrics: m, inFlight: map[string]bool{}}
}

// Validate trims the form and checks every field, returning the first failure.
func (f CheckoutForm) Validate() (CheckoutForm, error) {
	var ok bool
	if f.Name, ok = validate.Required(f.Name); !ok {
		return f, invalid("name", "Name is required")
	}
	if f.Email, ok = validate.Email(f.Email); !ok {
		return f, invalid("email", "Enter a valid email address")
	}
	if f.Address, ok = validate.Required(f.Address); !ok {
		return f, invalid("address", "Shipping address is required")
	}
	return f, nil
}

// Place turns the session's cart into a pending order. The order and its lines are written
// together; the cart is emptied only after that succeeds.
func (s *CheckoutService) Place(ctx context.Context, sessionID string, form CheckoutForm) (Receipt, error) {
	form, err := form.Validate()
	if err != nil {
		s.fail("validation")
		return Receipt{}, err
	}
	if !s.begin(sessionID) {
		s.fail("in_progress")
		return Receipt{}, ErrCheckoutInProgress
	}
	defer s.end(sessionID)

	var receipt Receipt
	err = s.Carts.With(ctx, sessionID, func(st *cart.Store) error {
		lines := st.Items()
		if len(lines) == 0 {
			return ErrEmptyCart
		}
		totals := st.Totals().Rounded()
		order := domain.Order{
			ID:              uuid.NewString(),
			CustomerName:    form.Name,
			CustomerEmail:   form.Email,
			ShippingAddress: form.Address,
			Subtotal:        totals.Subtotal,
			Tax:             totals.Tax,
			Total:           totals.Total,
			Status:          domain.StatusPending,
		}
		items := make([]domain.OrderItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, domain.OrderItem{
				OrderID:      order.ID,
				ProductID:    l.ID,
				ProductName:  l.Name,
				ProductImage: l.Image,
				Quantity:     l.Quantity,
				Price:        l.Price,
			})
		}
		if err := s.Orders.CreateWithItems(ctx, order, items); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		receipt = Receipt{OrderID: order.ID, Totals: totals}
		if err := st.Clear(ctx); err != nil {
			applog.Error(nil, "checkout.cart.clear.fail", err, map[string]any{"order_id": order.ID})
		}
		return nil
	})
	switch {
	case errors.Is(err, ErrEmptyCart):
		s.fail("empty_cart")
		return Receipt{}, err
	case err != nil:
		s.fail("store")
		return Receipt{}, err
	}
	if s.Metrics != nil {
		s.Metrics.OrdersPlaced.Inc()
	}
	return receipt, nil
}

func (s *CheckoutService) fail(reason string) {
	if s.Metrics != nil {
		s.Metrics.CheckoutFailures.WithLabelValues(reason).Inc()
	}
}

func (s *CheckoutService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight == nil {
		s.inFlight = map[string]bool{}
	}
	if s.inFlight[sessionID] {
		return false
	}
	s.inFlight[sessionID] = true
	return true
}

func (s *CheckoutService) end(sessionID string) {
	s.mu.Lock()
	delete(s.inFlight, sessionID)
	s.mu.Unlock()
}
