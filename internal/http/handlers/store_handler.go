package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"mymat/internal/carousel"
	"mymat/internal/domain"
	applog "mymat/internal/log"
	"mymat/internal/services"
)

type StoreHandler struct {
	Catalog *services.CatalogService
}

// Home renders the product feed with one card in focus. ?i= picks the card and ?key= applies
// an arrow key on top of it.
func (h *StoreHandler) Home(c *fiber.Ctx) error {
	products, err := h.Catalog.Products(c.UserContext(), domain.AllCategories())
	if err != nil {
		applog.Error(c, "feed.load.fail", err, nil)
		return serverError(c, "Could not load products. Please retry.")
	}
	i, _ := strconv.Atoi(c.Query("i"))
	tr := carousel.New(len(products), i).Key(c.Query("key"))

	data := fiber.Map{
		"Products": products,
		"Tracker":  tr,
		"Dots":     tr.Dots(),
	}
	if len(products) > 0 {
		data["Focus"] = products[tr.Centered]
	}
	if c.Query("notice") == "order-placed" {
		data["Notice"] = "Thank you! Your order has been placed."
		data["OrderID"] = c.Query("order")
	}
	return render(c, "home", data)
}

func (h *StoreHandler) Shop(c *fiber.Ctx) error {
	filter := domain.ParseCategoryFilter(c.Query("category"))
	products, err := h.Catalog.Products(c.UserContext(), filter)
	if err != nil {
		applog.Error(c, "shop.load.fail", err, nil)
		return serverError(c, "Could not load products. Please retry.")
	}
	labels, err := h.Catalog.FilterLabels(c.UserContext())
	if err != nil {
		applog.Error(c, "shop.categories.fail", err, nil)
		return serverError(c, "Could not load products. Please retry.")
	}
	return render(c, "shop", fiber.Map{
		"Products": products,
		"Labels":   labels,
		"Active":   filter.String(),
		"Count":    len(products),
	})
}

func (h *StoreHandler) About(c *fiber.Ctx) error { return render(c, "about", nil) }

func (h *StoreHandler) Contact(c *fiber.Ctx) error { return render(c, "contact", nil) }
