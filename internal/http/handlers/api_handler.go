package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"mymat/internal/carousel"
	"mymat/internal/domain"
	applog "mymat/internal/log"
	"mymat/internal/services"
	"mymat/internal/validate"
)

// APIHandler serves /api/v1. Shoppers are identified by the same sid cookie as the pages.
type APIHandler struct {
	Catalog  *services.CatalogService
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Orders   *services.AdminOrderService
	Auth     *services.AuthService
	Secure   bool
}

type cartLineJSON struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type cartJSON struct {
	Items    []cartLineJSON `json:"items"`
	Count    int            `json:"count"`
	Subtotal string         `json:"subtotal"`
	Tax      string         `json:"tax"`
	Total    string         `json:"total"`
}

func toCartJSON(v services.CartView) cartJSON {
	out := cartJSON{
		Items:    make([]cartLineJSON, 0, len(v.Items)),
		Count:    v.Totals.Items,
		Subtotal: domain.FormatMoney(v.Totals.Subtotal),
		Tax:      domain.FormatMoney(v.Totals.Tax),
		Total:    domain.FormatMoney(v.Totals.Total),
	}
	for _, it := range v.Items {
		out.Items = append(out.Items, cartLineJSON{
			ProductID: it.ID,
			Name:      it.Name,
			Image:     it.Image,
			Price:     domain.FormatMoney(it.Price),
			Quantity:  it.Quantity,
			LineTotal: domain.FormatMoney(it.LineTotal().Round(2)),
		})
	}
	return out
}

func apiError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// RequireJSON rejects mutating API calls whose body isn't JSON.
func RequireJSON(c *fiber.Ctx) error {
	switch c.Method() {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch:
		if !c.Is("json") {
			return apiError(c, fiber.StatusUnsupportedMediaType, "content type must be application/json")
		}
	}
	return c.Next()
}

// GET /api/v1/products?category=
func (h *APIHandler) Products(c *fiber.Ctx) error {
	filter := domain.ParseCategoryFilter(c.Query("category"))
	products, err := h.Catalog.Products(c.UserContext(), filter)
	if err != nil {
		applog.Error(c, "api.products.fail", err, nil)
		return apiError(c, fiber.StatusInternalServerError, "could not load products")
	}
	return c.JSON(fiber.Map{"category": filter.String(), "products": products})
}

func (h *APIHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		applog.Error(c, "api.categories.fail", err, nil)
		return apiError(c, fiber.StatusInternalServerError, "could not load categories")
	}
	return c.JSON(fiber.Map{"categories": cats})
}

func (h *APIHandler) GetCart(c *fiber.Ctx) error {
	sid := ensureSID(c, h.Secure)
	return c.JSON(toCartJSON(h.Cart.View(c.UserContext(), sid)))
}

// POST /api/v1/cart/items {"product_id": "..."}
func (h *APIHandler) AddItem(c *fiber.Ctx) error {
	var body struct {
		ProductID string `json:"product_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apiError(c, fiber.StatusBadRequest, "malformed JSON body")
	}
	id, ok := validate.ID(body.ProductID)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product_id", "api": true})
		return apiError(c, fiber.StatusBadRequest, "product_id is required")
	}
	sid := ensureSID(c, h.Secure)
	if err := h.Cart.Add(c.UserContext(), sid, id); err != nil {
		if errors.Is(err, services.ErrUnknownProduct) {
			return apiError(c, fiber.StatusNotFound, "unknown product")
		}
		applog.Error(c, "api.cart.add.fail", err, map[string]any{"product_id": id})
		return apiError(c, fiber.StatusInternalServerError, "could not update cart")
	}
	return c.Status(fiber.StatusCreated).JSON(toCartJSON(h.Cart.View(c.UserContext(), sid)))
}

// PATCH /api/v1/cart/items/:id {"quantity": n}; n <= 0 removes the line.
func (h *APIHandler) UpdateItem(c *fiber.Ctx) error {
	var body struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil || body.Quantity == nil {
		return apiError(c, fiber.StatusBadRequest, "quantity is required")
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid product id")
	}
	qty := min(*body.Quantity, 999)
	sid := ensureSID(c, h.Secure)
	if err := h.Cart.Update(c.UserContext(), sid, id, qty); err != nil {
		applog.Error(c, "api.cart.update.fail", err, map[string]any{"product_id": id})
		return apiError(c, fiber.StatusInternalServerError, "could not update cart")
	}
	return c.JSON(toCartJSON(h.Cart.View(c.UserContext(), sid)))
}

func (h *APIHandler) RemoveItem(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid product id")
	}
	sid := ensureSID(c, h.Secure)
	if err := h.Cart.Remove(c.UserContext(), sid, id); err != nil {
		applog.Error(c, "api.cart.remove.fail", err, map[string]any{"product_id": id})
		return apiError(c, fiber.StatusInternalServerError, "could not update cart")
	}
	return c.JSON(toCartJSON(h.Cart.View(c.UserContext(), sid)))
}

// POST /api/v1/checkout {"name","email","address"}
func (h *APIHandler) PlaceOrder(c *fiber.Ctx) error {
	var body struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Address string `json:"address"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apiError(c, fiber.StatusBadRequest, "malformed JSON body")
	}
	sid := ensureSID(c, h.Secure)
	receipt, err := h.Checkout.Place(c.UserContext(), sid, services.CheckoutForm{
		Name: body.Name, Email: body.Email, Address: body.Address,
	})
	if err != nil {
		status, msg, field := checkoutFailure(c, err)
		resp := fiber.Map{"error": msg}
		if field != "" {
			resp["field"] = field
		}
		return c.Status(status).JSON(resp)
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": receipt.OrderID, "api": true})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id": receipt.OrderID,
		"subtotal": domain.FormatMoney(receipt.Totals.Subtotal),
		"tax":      domain.FormatMoney(receipt.Totals.Tax),
		"total":    domain.FormatMoney(receipt.Totals.Total),
	})
}

// POST /api/v1/feed/center reports which card of a scrolled feed is closest to the middle.
func (h *APIHandler) FeedCenter(c *fiber.Ctx) error {
	var body struct {
		Container carousel.Span   `json:"container"`
		Cards     []carousel.Span `json:"cards"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apiError(c, fiber.StatusBadRequest, "malformed JSON body")
	}
	return c.JSON(fiber.Map{"index": carousel.CenteredIndex(body.Container, body.Cards)})
}

// POST /api/v1/auth/token exchanges admin credentials for a bearer token.
func (h *APIHandler) Token(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apiError(c, fiber.StatusBadRequest, "malformed JSON body")
	}
	tok, exp, err := h.Auth.IssueAdminToken(c.UserContext(), body.Email, body.Password)
	switch {
	case errors.Is(err, services.ErrBadCreds):
		applog.Security(c, "auth.token.fail", map[string]any{"email": body.Email})
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrNotAdmin):
		applog.Security(c, "auth.token.denied", map[string]any{"email": body.Email})
		return apiError(c, fiber.StatusForbidden, "admin role required")
	case err != nil:
		applog.Error(c, "auth.token.error", err, nil)
		return apiError(c, fiber.StatusInternalServerError, "could not issue token")
	}
	applog.Audit(c, "auth.token.issue", map[string]any{"email": body.Email})
	return c.JSON(fiber.Map{"token": tok, "expires_at": exp.UTC()})
}

// GET /api/v1/admin/orders?q=
func (h *APIHandler) AdminOrders(c *fiber.Ctx) error {
	ords, err := h.Orders.List(c.UserContext(), c.Query("q"))
	if err != nil {
		applog.Error(c, "api.orders.list.fail", err, nil)
		return apiError(c, fiber.StatusInternalServerError, "could not load orders")
	}
	out := make([]fiber.Map, 0, len(ords))
	for _, o := range ords {
		out = append(out, fiber.Map{
			"id": o.ID, "customer_name": o.CustomerName, "customer_email": o.CustomerEmail,
			"status": o.Status, "total": domain.FormatMoney(o.Total), "created_at": o.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"orders": out})
}

// POST /api/v1/admin/orders/:id/status {"status": "..."}
func (h *APIHandler) AdminOrderStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apiError(c, fiber.StatusBadRequest, "malformed JSON body")
	}
	id := c.Params("id")
	from, to, err := h.Orders.ChangeStatus(c.UserContext(), id, body.Status)
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return apiError(c, fiber.StatusBadRequest, verr.Msg)
	case errors.Is(err, domain.ErrOrderNotFound):
		return apiError(c, fiber.StatusNotFound, "order not found")
	case errors.Is(err, domain.ErrIllegalTransition):
		applog.Security(c, "admin.orders.transition.reject", map[string]any{"order_id": id, "from": from, "to": to, "api": true})
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "illegal status transition", "from": from, "to": to})
	case err != nil:
		applog.Error(c, "api.orders.update.fail", err, map[string]any{"order_id": id})
		return apiError(c, fiber.StatusInternalServerError, "could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "from": from, "status": to, "api": true})
	return c.JSON(fiber.Map{"id": id, "from": from, "status": to, "changed": from != to})
}
