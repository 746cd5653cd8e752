package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"mymat/internal/domain"
	applog "mymat/internal/log"
	"mymat/internal/media"
	"mymat/internal/repos"
	"mymat/internal/services"
)

type AdminHandler struct {
	Catalog   *services.AdminCatalogService
	Orders    *services.AdminOrderService
	Dashboard *services.DashboardService
	Settings  *services.SettingsService
	Media     *media.Store
	Auth      *services.AuthService
	Secure    bool
}

// GET /admin
func (h *AdminHandler) DashboardPage(c *fiber.Ctx) error {
	st, err := h.Dashboard.Stats(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return serverError(c, "Could not load the dashboard")
	}
	return render(c, "admin/dashboard", fiber.Map{"Stats": st, "Max": maxSales(st.Sales)})
}

// maxSales is the bar chart's scale.
func maxSales(days []domain.DaySales) float64 {
	m := 0.0
	for _, d := range days {
		if f := d.Total.InexactFloat64(); f > m {
			m = f
		}
	}
	return m
}

// ---------- Products ----------

func (h *AdminHandler) ProductsPage(c *fiber.Ctx) error {
	q := c.Query("q")
	products, err := h.Catalog.ListProducts(c.UserContext(), q)
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return serverError(c, "Could not load products")
	}
	return render(c, "admin/products", fiber.Map{"Products": products, "Q": q})
}

func (h *AdminHandler) productForm(c *fiber.Ctx, status int, p domain.Product, in services.ProductInput, errMsg string) error {
	cats, err := h.Catalog.ListCategories(c.UserContext(), "")
	if err != nil {
		applog.Error(c, "admin.categories.list.fail", err, nil)
		return serverError(c, "Could not load categories")
	}
	return renderStatus(c, status, "admin/product_form", fiber.Map{
		"Product": p, "Input": in, "Categories": cats, "Err": errMsg, "IsEdit": p.ID != "",
	})
}

func inputFromProduct(p domain.Product) services.ProductInput {
	in := services.ProductInput{
		Name: p.Name, Price: domain.FormatMoney(p.Price), Category: p.Category,
		Description: p.Description, Image: p.Image,
	}
	if p.OriginalPrice.Valid {
		in.OriginalPrice = domain.FormatMoney(p.OriginalPrice.Decimal)
	}
	return in
}

func (h *AdminHandler) NewProductPage(c *fiber.Ctx) error {
	return h.productForm(c, fiber.StatusOK, domain.Product{}, services.ProductInput{}, "")
}

// readProductInput collects the form and stores an uploaded image, if any.
func (h *AdminHandler) readProductInput(c *fiber.Ctx) (services.ProductInput, error) {
	in := services.ProductInput{
		Name:          c.FormValue("name"),
		Price:         c.FormValue("price"),
		OriginalPrice: c.FormValue("original_price"),
		Category:      c.FormValue("category"),
		Description:   c.FormValue("description"),
		Image:         c.FormValue("image_url"),
	}
	fh, err := c.FormFile("image")
	if err != nil || fh == nil || fh.Size == 0 {
		return in, nil
	}
	url, err := h.Media.SaveProductImage(fh)
	if err != nil {
		return in, err
	}
	in.Image = url
	return in, nil
}

// productFailure renders the form again for validation problems, or a generic error page.
func (h *AdminHandler) productFailure(c *fiber.Ctx, p domain.Product, in services.ProductInput, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		applog.Security(c, "validation.fail", map[string]any{"field": verr.Field, "form": "product"})
		return h.productForm(c, fiber.StatusBadRequest, p, in, verr.Msg)
	case errors.Is(err, media.ErrType):
		applog.Security(c, "validation.fail", map[string]any{"field": "image"})
		return h.productForm(c, fiber.StatusBadRequest, p, in, "Images must be JPG, PNG, WebP or GIF")
	case errors.Is(err, repos.ErrNotFound):
		return notFound(c, "Product not found")
	}
	applog.Error(c, "admin.products.save.fail", err, map[string]any{"product_id": p.ID})
	return serverError(c, "Could not save the product")
}

func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	in, err := h.readProductInput(c)
	if err != nil {
		return h.productFailure(c, domain.Product{}, in, err)
	}
	id, err := h.Catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return h.productFailure(c, domain.Product{}, in, err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product_id": id, "name": in.Name})
	return c.Redirect("/admin/products")
}

func (h *AdminHandler) EditProductPage(c *fiber.Ctx) error {
	p, err := h.Catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return notFound(c, "Product not found")
	}
	return h.productForm(c, fiber.StatusOK, p, inputFromProduct(p), "")
}

func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	p, err := h.Catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return notFound(c, "Product not found")
	}
	in, err := h.readProductInput(c)
	if err != nil {
		return h.productFailure(c, p, in, err)
	}
	if err := h.Catalog.UpdateProduct(c.UserContext(), p.ID, in); err != nil {
		return h.productFailure(c, p, in, err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product_id": p.ID})
	return c.Redirect("/admin/products")
}

func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return notFound(c, "Product not found")
		}
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product_id": id})
		return serverError(c, "Could not delete the product")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id})
	return c.Redirect("/admin/products")
}

// ---------- Categories ----------

func (h *AdminHandler) categoriesPage(c *fiber.Ctx, status int, errMsg string) error {
	q := c.Query("q")
	cats, err := h.Catalog.ListCategories(c.UserContext(), q)
	if err != nil {
		applog.Error(c, "admin.categories.list.fail", err, nil)
		return serverError(c, "Could not load categories")
	}
	return renderStatus(c, status, "admin/categories", fiber.Map{"Categories": cats, "Q": q, "Err": errMsg})
}

func (h *AdminHandler) CategoriesPage(c *fiber.Ctx) error {
	return h.categoriesPage(c, fiber.StatusOK, "")
}

func (h *AdminHandler) categoryFailure(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		applog.Security(c, "validation.fail", map[string]any{"field": verr.Field, "form": "category"})
		return h.categoriesPage(c, fiber.StatusBadRequest, verr.Msg)
	case errors.Is(err, repos.ErrNotFound):
		return notFound(c, "Category not found")
	}
	applog.Error(c, "admin.categories.save.fail", err, nil)
	return serverError(c, "Could not save the category")
}

func (h *AdminHandler) AddCategory(c *fiber.Ctx) error {
	cat, err := h.Catalog.AddCategory(c.UserContext(), c.FormValue("name"))
	if err != nil {
		return h.categoryFailure(c, err)
	}
	applog.Audit(c, "admin.categories.create", map[string]any{"category_id": cat.ID, "name": cat.Name})
	return c.Redirect("/admin/categories")
}

func (h *AdminHandler) RenameCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.RenameCategory(c.UserContext(), id, c.FormValue("name")); err != nil {
		return h.categoryFailure(c, err)
	}
	applog.Audit(c, "admin.categories.rename", map[string]any{"category_id": id, "name": c.FormValue("name")})
	return c.Redirect("/admin/categories")
}

func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.DeleteCategory(c.UserContext(), id); err != nil {
		return h.categoryFailure(c, err)
	}
	applog.Audit(c, "admin.categories.delete", map[string]any{"category_id": id})
	return c.Redirect("/admin/categories")
}

// ---------- Orders ----------

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	q := c.Query("q")
	ords, err := h.Orders.List(c.UserContext(), q)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return serverError(c, "Could not load orders")
	}
	return render(c, "admin/orders", fiber.Map{"Orders": ords, "Q": q})
}

func (h *AdminHandler) orderPage(c *fiber.Ctx, status int, id, errMsg string) error {
	o, items, err := h.Orders.Detail(c.UserContext(), id)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return notFound(c, "Order not found")
	}
	if err != nil {
		applog.Error(c, "admin.orders.detail.fail", err, map[string]any{"order_id": id})
		return serverError(c, "Could not load the order")
	}
	return renderStatus(c, status, "admin/order", fiber.Map{
		"Order": o, "Items": items, "Statuses": domain.OrderStatuses, "Err": errMsg,
	})
}

// GET /admin/orders/:id
func (h *AdminHandler) OrderPage(c *fiber.Ctx) error {
	return h.orderPage(c, fiber.StatusOK, c.Params("id"), "")
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	status := c.FormValue("status")
	from, to, err := h.Orders.ChangeStatus(c.UserContext(), id, status)
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		applog.Security(c, "validation.fail", map[string]any{"field": "status", "value": status})
		return h.orderPage(c, fiber.StatusBadRequest, id, verr.Msg)
	case errors.Is(err, domain.ErrOrderNotFound):
		return notFound(c, "Order not found")
	case errors.Is(err, domain.ErrIllegalTransition):
		applog.Security(c, "admin.orders.transition.reject", map[string]any{"order_id": id, "from": from, "to": to})
		return h.orderPage(c, fiber.StatusConflict, id, "An order can't move from "+string(from)+" to "+string(to))
	case err != nil:
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return serverError(c, "Could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "from": from, "status": to})
	return c.Redirect("/admin/orders/" + id)
}

// GET /admin/orders/export.xlsx
func (h *AdminHandler) ExportOrders(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+services.ExportName(time.Now())+`"`)
	if err := h.Orders.Export(c.UserContext(), c.Response().BodyWriter()); err != nil {
		c.Response().ResetBody()
		c.Set(fiber.HeaderContentDisposition, "")
		applog.Error(c, "admin.orders.export.fail", err, nil)
		return serverError(c, "Could not export orders")
	}
	applog.Audit(c, "admin.orders.export", nil)
	return nil
}

// ---------- Settings ----------

func (h *AdminHandler) SettingsPage(c *fiber.Ctx) error {
	s, err := h.Settings.Get(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.settings.load.fail", err, nil)
		return serverError(c, "Could not load settings")
	}
	return render(c, "admin/settings", fiber.Map{"Settings": s, "Saved": c.Query("saved") == "1"})
}

func (h *AdminHandler) SaveSettings(c *fiber.Ctx) error {
	s := domain.Settings{
		StoreName:          c.FormValue("store_name"),
		SupportEmail:       c.FormValue("support_email"),
		Currency:           c.FormValue("currency"),
		Timezone:           c.FormValue("timezone"),
		OrderNotifications: c.FormValue("order_notifications") == "on",
		PromoEmails:        c.FormValue("promo_emails") == "on",
	}
	if err := h.Settings.Save(c.UserContext(), s); err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			applog.Security(c, "validation.fail", map[string]any{"field": verr.Field, "form": "settings"})
			return renderStatus(c, fiber.StatusBadRequest, "admin/settings", fiber.Map{"Settings": s, "Err": verr.Msg})
		}
		applog.Error(c, "admin.settings.save.fail", err, nil)
		return serverError(c, "Could not save settings")
	}
	applog.Audit(c, "admin.settings.save", nil)
	return c.Redirect("/admin/settings?saved=1")
}
