package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lineacommerce/backoffice-backend/api/controllers"
	"github.com/lineacommerce/backoffice-backend/api/middleware"
	"github.com/lineacommerce/backoffice-backend/internal/auth"
	"github.com/lineacommerce/backoffice-backend/internal/branches"
	"github.com/lineacommerce/backoffice-backend/internal/cart"
	"github.com/lineacommerce/backoffice-backend/internal/catalog"
	"github.com/lineacommerce/backoffice-backend/internal/inventory"
	"github.com/lineacommerce/backoffice-backend/internal/orders"
	"github.com/lineacommerce/backoffice-backend/internal/reviews"
	"github.com/lineacommerce/backoffice-backend/internal/users"
	"github.com/lineacommerce/backoffice-backend/pkg/auth/session"
	"github.com/lineacommerce/backoffice-backend/pkg/config"
	"github.com/lineacommerce/backoffice-backend/pkg/enums"
	"github.com/lineacommerce/backoffice-backend/pkg/logger"
	"github.com/lineacommerce/backoffice-backend/pkg/metrics"
	"github.com/lineacommerce/backoffice-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. The metrics handler
// and HTTPMetrics may be nil when observability is not wired.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             controllers.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Auth      auth.Service
	Users     users.Service
	Catalog   catalog.Service
	Inventory inventory.Service
	Cart      cart.Service
	Orders    orders.Service
	Reviews   reviews.Service
	Branches  branches.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Users, deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, deps.SessionChecker, logg)).Post("/logout", controllers.AuthLogout(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.UserProfile(deps.Users, logg))
			r.Post("/me/change-password", controllers.UserChangePassword(deps.Users, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff(logg))
				r.Get("/", controllers.UserList(deps.Users, logg))
				r.Get("/{userId}", controllers.UserDetail(deps.Users, logg))
				r.Patch("/{userId}", controllers.UserUpdate(deps.Users, logg))
				r.Post("/{userId}/deactivate", controllers.UserDeactivate(deps.Users, logg))
			})
			r.With(middleware.RequireRole(logg, enums.UserRoleAdmin)).Post("/", controllers.UserCreate(deps.Users, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Catalog, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.Catalog, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff(logg))
				r.Post("/", controllers.ProductCreate(deps.Catalog, logg))
				r.Patch("/{productId}", controllers.ProductUpdate(deps.Catalog, logg))
				r.Delete("/{productId}", controllers.ProductDelete(deps.Catalog, logg))
				r.Post("/{productId}/update-stock", controllers.ProductUpdateStock(deps.Inventory, logg))
				r.Post("/{productId}/adjust-stock", controllers.ProductAdjustStock(deps.Inventory, logg))
				r.Get("/{productId}/stock-movements", controllers.ProductMovements(deps.Inventory, logg))
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(deps.Catalog, logg))
			r.Get("/{categoryId}", controllers.CategoryDetail(deps.Catalog, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff(logg))
				r.Post("/", controllers.CategoryCreate(deps.Catalog, logg))
				r.Patch("/{categoryId}", controllers.CategoryUpdate(deps.Catalog, logg))
				r.Delete("/{categoryId}", controllers.CategoryDelete(deps.Catalog, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartDetail(deps.Cart, logg))
			r.Post("/items", controllers.CartAddLine(deps.Cart, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateLine(deps.Cart, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveLine(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/create-order", controllers.CartCheckout(deps.Orders, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(deps.Orders, logg))
			r.With(middleware.RequireStaff(logg)).Post("/{orderId}/status", controllers.OrderUpdateStatus(deps.Orders, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", controllers.ReviewList(deps.Reviews, logg))
			r.Get("/{reviewId}", controllers.ReviewDetail(deps.Reviews, logg))
			r.Post("/", controllers.ReviewCreate(deps.Reviews, logg))
			r.Patch("/{reviewId}", controllers.ReviewUpdate(deps.Reviews, logg))
			r.Delete("/{reviewId}", controllers.ReviewDelete(deps.Reviews, logg))
		})

		r.Route("/branches", func(r chi.Router) {
			r.Get("/", controllers.BranchList(deps.Branches, logg))
			r.Get("/{branchId}", controllers.BranchDetail(deps.Branches, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff(logg))
				r.Post("/", controllers.BranchCreate(deps.Branches, logg))
				r.Patch("/{branchId}", controllers.BranchUpdate(deps.Branches, logg))
				r.Delete("/{branchId}", controllers.BranchDelete(deps.Branches, logg))
			})
		})
	})

	return r
}
