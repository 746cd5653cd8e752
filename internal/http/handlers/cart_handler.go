package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "mymat/internal/log"
	"mymat/internal/services"
	"mymat/internal/validate"
)

type CartHandler struct {
	Cart   *services.CartService
	Secure bool
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c, h.Secure)
	return render(c, "cart", fiber.Map{"Cart": h.Cart.View(c.UserContext(), sid)})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c, h.Secure)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	if err := h.Cart.Add(c.UserContext(), sid, productID); err != nil {
		if errors.Is(err, services.ErrUnknownProduct) {
			return notFound(c, "This item is no longer available")
		}
		applog.Error(c, "cart.add.fail", err, map[string]any{"product_id": productID})
		return serverError(c, "Could not update your cart. Please retry.")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c, h.Secure)
	productID, okID := validate.ID(c.FormValue("productId"))
	qty, okQty := validate.Qty(c.FormValue("qty"))
	if !okID || !okQty {
		applog.Security(c, "validation.fail", map[string]any{"field": "qty"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid quantity")
	}
	if err := h.Cart.Update(c.UserContext(), sid, productID, qty); err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"product_id": productID})
		return serverError(c, "Could not update your cart. Please retry.")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c, h.Secure)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	if err := h.Cart.Remove(c.UserContext(), sid, productID); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"product_id": productID})
		return serverError(c, "Could not update your cart. Please retry.")
	}
	return c.Redirect("/cart")
}
