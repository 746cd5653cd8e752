package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"mymat/internal/domain"
	applog "mymat/internal/log"
	"mymat/internal/services"
)

type CheckoutHandler struct {
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Secure   bool
}

func (h *CheckoutHandler) Form(c *fiber.Ctx) error {
	sid := ensureSID(c, h.Secure)
	return render(c, "checkout", fiber.Map{"Cart": h.Cart.View(c.UserContext(), sid), "Form": services.CheckoutForm{}})
}

func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c, h.Secure)
	form := services.CheckoutForm{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Address: c.FormValue("address"),
	}
	receipt, err := h.Checkout.Place(c.UserContext(), sid, form)
	if err != nil {
		status, msg, field := checkoutFailure(c, err)
		return renderStatus(c, status, "checkout", fiber.Map{
			"Cart":  h.Cart.View(c.UserContext(), sid),
			"Form":  form,
			"Err":   msg,
			"Field": field,
		})
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": receipt.OrderID,
		"total":    domain.FormatMoney(receipt.Totals.Total),
		"items":    receipt.Totals.Items,
	})
	return c.Redirect("/?notice=order-placed&order=" + receipt.OrderID)
}

// checkoutFailure logs err and maps it to a status code and a shopper-facing message.
func checkoutFailure(c *fiber.Ctx, err error) (int, string, string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		applog.Security(c, "validation.fail", map[string]any{"field": verr.Field})
		return fiber.StatusBadRequest, verr.Msg, verr.Field
	case errors.Is(err, services.ErrEmptyCart):
		applog.Info(c, "order.place.empty", nil)
		return fiber.StatusBadRequest, "Your cart is empty.", ""
	case errors.Is(err, services.ErrCheckoutInProgress):
		applog.Security(c, "order.place.duplicate", nil)
		return fiber.StatusConflict, "Your order is already being placed.", ""
	default:
		applog.Error(c, "order.place.fail", err, nil)
		return fiber.StatusInternalServerError, "Could not place your order. Please try again.", ""
	}
}
