package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lcorp/storefront/api/controllers"
	"github.com/lcorp/storefront/api/middleware"
	"github.com/lcorp/storefront/internal/customers"
	"github.com/lcorp/storefront/internal/inventory"
	"github.com/lcorp/storefront/internal/orders"
	"github.com/lcorp/storefront/internal/session"
	"github.com/lcorp/storefront/pkg/config"
	"github.com/lcorp/storefront/pkg/enums"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/lcorp/storefront/pkg/metrics"
	pkgredis "github.com/lcorp/storefront/pkg/redis"
	"github.com/lcorp/storefront/pkg/telemetry"
)

// RedisHelpers is what the auth throttle and idempotency replay need.
// Leave it nil to run without either.
type RedisHelpers interface {
	pkgredis.IdempotencyStore
	middleware.RateLimitStore
}

// Deps collects everything the router wires into handlers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Sessions  *session.Manager
	Cart      controllers.CartService
	Checkout  controllers.CheckoutService
	Inventory inventory.Service
	Orders    orders.Service
	Customers customers.Service
	Redis     RedisHelpers
	Registry  *prometheus.Registry
	Ready     map[string]controllers.Pinger
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger
	r := chi.NewRouter()

	var httpMetrics *metrics.HTTPMetrics
	if d.Registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(d.Registry)
	}

	r.Use(
		middleware.Recoverer(logg),
		telemetry.Middleware(cfg.Telemetry.ServiceName, "/health/live", "/health/ready", "/metrics"),
		middleware.RequestID(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Metrics(httpMetrics),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.Ready, logg))
	})
	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Registry))
	}

	var (
		limiter middleware.RateLimitStore
		replay  pkgredis.IdempotencyStore
	)
	if d.Redis != nil {
		limiter, replay = d.Redis, d.Redis
	}
	idem := middleware.Idempotency(replay, cfg.Security.IdempotencyTTL, logg)
	loginPolicy := middleware.NewAuthRateLimitPolicy("login", cfg.Security.AuthWindow, cfg.Security.AuthIPLimit, cfg.Security.AuthUsernameLimit)
	registerPolicy := middleware.NewAuthRateLimitPolicy("register", cfg.Security.AuthWindow, cfg.Security.AuthIPLimit, cfg.Security.AuthUsernameLimit)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(d.Sessions, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg), idem).Post("/register", controllers.AuthRegister(d.Sessions, logg))
			r.Post("/logout", controllers.AuthLogout(d.Sessions, logg))
			r.Get("/session", controllers.AuthSession(d.Sessions, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogProducts(d.Inventory, logg))
			r.Get("/products/{productID}", controllers.CatalogProduct(d.Inventory, logg))
		})

		r.Route("/customer", func(r chi.Router) {
			r.Use(middleware.RequireRole(d.Sessions, enums.RoleCustomer, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartView(d.Cart, logg))
				r.Delete("/", controllers.CartClear(d.Cart, logg))
				r.Post("/items", controllers.CartAdd(d.Cart, logg))
				r.Post("/items/remove", controllers.CartRemoveItems(d.Cart, logg))
				r.Put("/items/{productID}", controllers.CartUpdateQuantity(d.Cart, logg))
				r.Delete("/items/{productID}", controllers.CartRemove(d.Cart, logg))
				r.Post("/selection/all", controllers.CartToggleSelectAll(d.Cart, logg))
				r.Post("/selection/{productID}", controllers.CartToggleSelected(d.Cart, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", controllers.CheckoutStaged(d.Checkout, logg))
				r.Delete("/", controllers.CheckoutCancel(d.Checkout, logg))
				r.Post("/buy-now", controllers.CheckoutBuyNow(d.Checkout, logg))
				r.Post("/from-cart", controllers.CheckoutFromCart(d.Checkout, logg))
				r.With(idem).Post("/submit", controllers.CheckoutSubmit(d.Checkout, logg))
			})

			r.Get("/transactions", controllers.TransactionHistory(d.Orders, logg))
			r.Get("/transactions/{orderID}", controllers.TransactionDetail(d.Orders, logg))
			mountSettings(r, d.Customers, logg)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(d.Sessions, enums.RoleAdmin, logg))

			r.Get("/dashboard", controllers.AdminDashboard(d.Inventory, d.Orders, logg))

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/products", controllers.AdminProducts(d.Inventory, logg))
				r.With(idem).Post("/products", controllers.AdminCreateProduct(d.Inventory, logg))
				r.Put("/products/{productID}", controllers.AdminUpdateProduct(d.Inventory, logg))
				r.Delete("/products/{productID}", controllers.AdminDeleteProduct(d.Inventory, logg))
				r.Get("/low-stock", controllers.AdminLowStock(d.Inventory, logg))
				r.Get("/suppliers", controllers.AdminActiveSuppliers(d.Inventory, logg))
				r.With(idem).Post("/reorder", controllers.AdminReorder(d.Inventory, d.Customers, logg))
				r.Post("/reorder/plan", controllers.AdminReorderPlan(d.Inventory, logg))
				r.With(idem).Post("/reorder/bulk", controllers.AdminBulkReorder(d.Inventory, d.Customers, logg))
			})

			r.Route("/supplier-orders", func(r chi.Router) {
				r.Get("/", controllers.AdminSupplierOrders(d.Orders, logg))
				r.Get("/pending", controllers.AdminPendingSupplierOrders(d.Orders, logg))
				r.Get("/{orderID}", controllers.AdminSupplierOrder(d.Orders, logg))
				r.Put("/{orderID}/arrive", controllers.AdminArriveSupplierOrder(d.Orders, logg))
				r.Put("/{orderID}/complete", controllers.AdminCompleteSupplierOrder(d.Orders, logg))
				r.Delete("/{orderID}", controllers.AdminCancelSupplierOrder(d.Orders, logg))
			})

			r.Route("/customer-orders", func(r chi.Router) {
				r.Get("/", controllers.AdminCustomerOrders(d.Orders, logg))
				r.Get("/pending", controllers.AdminPendingCustomerOrders(d.Orders, logg))
				r.Get("/{orderID}", controllers.AdminCustomerOrder(d.Orders, logg))
				r.Get("/{orderID}/payments", controllers.AdminOrderPayments(d.Orders, logg))
				r.Put("/{orderID}/process", controllers.AdminProcessCustomerOrder(d.Orders, logg))
				r.Put("/{orderID}/complete", controllers.AdminCompleteCustomerOrder(d.Orders, logg))
				r.Put("/{orderID}/cancel", controllers.AdminCancelCustomerOrder(d.Orders, logg))
				r.Put("/{orderID}/assign", controllers.AdminAssignEmployee(d.Orders, logg))
				r.Put("/{orderID}/assign/self", controllers.AdminAssignToSelf(d.Orders, logg))
			})

			r.Get("/payments", controllers.AdminPayments(d.Orders, logg))
			r.Get("/customers", controllers.AdminCustomers(d.Customers, logg))
			r.Get("/customers/{customerID}", controllers.AdminCustomer(d.Customers, logg))
			mountSettings(r, d.Customers, logg)
		})
	})

	return r
}

func mountSettings(r chi.Router, svc customers.Service, logg *logger.Logger) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", controllers.SettingsGet(svc, logg))
		r.Put("/profile", controllers.SettingsUpdateProfile(svc, logg))
		r.Put("/username", controllers.SettingsChangeUsername(svc, logg))
		r.Put("/password", controllers.SettingsChangePassword(svc, logg))
	})
}
