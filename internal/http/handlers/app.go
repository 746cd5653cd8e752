package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	html "github.com/gofiber/template/html/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"mymat/internal/domain"
	applog "mymat/internal/log"
)

// BodyLimit leaves room for product image uploads.
const BodyLimit = 4 << 20

const friendlyError = "Something went wrong. Please try again."

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func isAPI(c *fiber.Ctx) bool { return strings.HasPrefix(c.Path(), "/api/") }

func isAsset(c *fiber.Ctx) bool {
	p := c.Path()
	return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
}

// ErrorHandler keeps internals out of responses: 5xx always gets the generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := friendlyError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code = fe.Code
		msg = utils.StatusMessage(code)
		applog.Info(c, "request.rejected", map[string]any{"code": code})
	} else {
		applog.Error(c, "server.error", err, nil)
	}
	if isAPI(c) {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := renderStatus(c, code, "notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

func templateFuncs(engine *html.Engine) {
	engine.AddFunc("money", domain.FormatMoney)
	// pct scales v against max for the dashboard bars.
	engine.AddFunc("pct", func(v decimal.Decimal, max float64) int {
		if max <= 0 {
			return 0
		}
		return int(v.InexactFloat64() / max * 100)
	})
	engine.AddFunc("lineTotal", func(it domain.CartItem) string { return domain.FormatMoney(it.LineTotal().Round(2)) })
}

// NewApp builds the fiber app: middleware, static assets, pages, the JSON API and the admin area.
func NewApp(d *Deps) *fiber.App {
	cfg := d.Cfg
	engine := html.New(cfg.TemplatesDir, ".html")
	templateFuncs(engine)

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: ErrorHandler,
		BodyLimit:    BodyLimit,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(AttachUser(d.Auth))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit,
		Expiration: time.Minute,
		Next:       isAsset,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			if isAPI(c) {
				return apiError(c, fiber.StatusTooManyRequests, "rate limit exceeded, retry soon")
			}
			return renderStatus(c, fiber.StatusTooManyRequests, "notfound", fiber.Map{"Message": "Too many requests. Please slow down."})
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ContextKey:     "csrf",
		Next:           isAPI, // the API is bearer/JSON only
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
			return renderStatus(c, fiber.StatusForbidden, "notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	app.Static("/static", cfg.StaticDir)
	app.Get("/media/*", func(c *fiber.Ctx) error {
		full, err := d.Media.Resolve(c.Params("*"))
		if err != nil {
			applog.Security(c, "media.traversal.block", map[string]any{"path": c.Params("*")})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(full, true)
	})
	app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	loginLimiter := func(tmpl string) fiber.Handler {
		return limiter.New(limiter.Config{
			Max:        5,
			Expiration: 10 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP() + "|" + tmpl
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.login.hit", map[string]any{"form": tmpl})
				if isAPI(c) {
					return apiError(c, fiber.StatusTooManyRequests, "too many attempts")
				}
				return renderStatus(c, fiber.StatusTooManyRequests, tmpl, fiber.Map{"Err": "Too many attempts. Please try again later."})
			},
		})
	}

	// ---------- Storefront ----------
	store, crt, co, ah := d.StoreHandler, d.CartHandler, d.CheckoutHandler, d.AuthHandler
	app.Get("/", store.Home)
	app.Get("/shop", store.Shop)
	app.Get("/about", store.About)
	app.Get("/contact", store.Contact)

	app.Get("/cart", crt.View)
	app.Post("/cart", crt.Add)
	app.Post("/cart/update", crt.Update)
	app.Post("/cart/remove", crt.Remove)
	app.Get("/checkout", co.Form)
	app.Post("/checkout", co.Place)

	app.Get("/login", ah.LoginForm)
	app.Post("/login", loginLimiter("login"), ah.Login)
	app.Post("/signup", loginLimiter("login"), ah.Signup)
	app.Post("/logout", ah.Logout)

	// ---------- Admin ----------
	// sign-in routes come before the guarded group so they are reachable without a session
	app.Get("/admin/login", ah.AdminLoginForm)
	app.Post("/admin/login", loginLimiter("admin/login"), ah.AdminLogin)
	app.Post("/admin/logout", ah.AdminLogout)

	adm := d.AdminHandler
	admin := app.Group("/admin", RequireAdmin(d.Auth))
	admin.Get("/", adm.DashboardPage)
	admin.Get("/products", adm.ProductsPage)
	admin.Get("/products/new", adm.NewProductPage)
	admin.Post("/products/new", adm.CreateProduct)
	admin.Get("/products/:id/edit", adm.EditProductPage)
	admin.Post("/products/:id/edit", adm.UpdateProduct)
	admin.Post("/products/:id/delete", adm.DeleteProduct)
	admin.Get("/categories", adm.CategoriesPage)
	admin.Post("/categories", adm.AddCategory)
	admin.Post("/categories/:id", adm.RenameCategory)
	admin.Post("/categories/:id/delete", adm.DeleteCategory)
	admin.Get("/orders", adm.OrdersPage)
	admin.Get("/orders/export.xlsx", adm.ExportOrders)
	admin.Get("/orders/:id", adm.OrderPage)
	admin.Post("/orders/:id/status", adm.UpdateOrderStatus)
	admin.Get("/settings", adm.SettingsPage)
	admin.Post("/settings", adm.SaveSettings)

	// ---------- API ----------
	api := app.Group("/api/v1")
	if len(cfg.CORSOrigins) > 0 {
		api.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.CORSOrigins, ","),
			AllowHeaders:     "Content-Type, Authorization",
			AllowCredentials: false,
		}))
	}
	api.Use(RequireJSON)
	h := d.APIHandler
	api.Get("/products", h.Products)
	api.Get("/categories", h.Categories)
	api.Get("/cart", h.GetCart)
	api.Post("/cart/items", h.AddItem)
	api.Patch("/cart/items/:id", h.UpdateItem)
	api.Delete("/cart/items/:id", h.RemoveItem)
	api.Post("/checkout", h.PlaceOrder)
	api.Post("/feed/center", h.FeedCenter)
	api.Post("/auth/token", loginLimiter("api/token"), h.Token)

	apiAdmin := api.Group("/admin", RequireAdminToken(d.Auth))
	apiAdmin.Get("/orders", h.AdminOrders)
	apiAdmin.Post("/orders/:id/status", h.AdminOrderStatus)

	// ---------- 404 ----------
	app.Use(func(c *fiber.Ctx) error {
		if isAPI(c) {
			return apiError(c, fiber.StatusNotFound, "not found")
		}
		return notFound(c, "Page not found")
	})
	return app
}
