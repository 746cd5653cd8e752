package handlers

import (
	"github.com/jmoiron/sqlx"

	"mymat/internal/auth"
	"mymat/internal/cart"
	"mymat/internal/config"
	"mymat/internal/media"
	"mymat/internal/metrics"
	"mymat/internal/repos"
	"mymat/internal/services"
)

type Deps struct {
	Cfg     config.Config
	Metrics *metrics.Metrics
	Media   *media.Store
	Auth    *services.AuthService

	AuthHandler     *AuthHandler
	StoreHandler    *StoreHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	AdminHandler    *AdminHandler
	APIHandler      *APIHandler
}

// NewDeps wires repositories, services and handlers. Carts are kept in storage.
func NewDeps(db *sqlx.DB, cfg config.Config, storage cart.Storage, m *metrics.Metrics) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)

	registry := cart.NewRegistry(storage, cart.WithMutationHook(func(op string) {
		m.CartMutations.WithLabelValues(op).Inc()
	}))

	authSvc := &services.AuthService{Users: userRepo, Tokens: auth.NewTokens(cfg.JWTSecret)}
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(registry, prodRepo)
	checkoutSvc := services.NewCheckoutService(registry, orderRepo, m)
	adminCatalog := services.NewAdminCatalogService(prodRepo, catRepo)
	adminOrders := services.NewAdminOrderService(orderRepo, m)
	dashboard := services.NewDashboardService(prodRepo, catRepo, orderRepo)
	settings := &services.SettingsService{Repo: repos.NewSettingsRepo(db)}
	store := media.NewStore(cfg.MediaDir)

	return &Deps{
		Cfg:     cfg,
		Metrics: m,
		Media:   store,
		Auth:    authSvc,

		AuthHandler:     &AuthHandler{Auth: authSvc, Secure: cfg.CookieSecure},
		StoreHandler:    &StoreHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc, Secure: cfg.CookieSecure},
		CheckoutHandler: &CheckoutHandler{Cart: cartSvc, Checkout: checkoutSvc, Secure: cfg.CookieSecure},
		AdminHandler: &AdminHandler{
			Catalog: adminCatalog, Orders: adminOrders, Dashboard: dashboard,
			Settings: settings, Media: store, Auth: authSvc, Secure: cfg.CookieSecure,
		},
		APIHandler: &APIHandler{
			Catalog: catalogSvc, Cart: cartSvc, Checkout: checkoutSvc,
			Orders: adminOrders, Auth: authSvc, Secure: cfg.CookieSecure,
		},
	}
}
