package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/polly-storefront/api/controllers"
	cartcontrollers "github.com/angelmondragon/polly-storefront/api/controllers/cart"
	"github.com/angelmondragon/polly-storefront/api/middleware"
	"github.com/angelmondragon/polly-storefront/internal/auth"
	"github.com/angelmondragon/polly-storefront/internal/cart"
	"github.com/angelmondragon/polly-storefront/internal/categories"
	product "github.com/angelmondragon/polly-storefront/internal/products"
	"github.com/angelmondragon/polly-storefront/pkg/auth/session"
	"github.com/angelmondragon/polly-storefront/pkg/config"
	"github.com/angelmondragon/polly-storefront/pkg/enums"
	"github.com/angelmondragon/polly-storefront/pkg/logger"
	"github.com/angelmondragon/polly-storefront/pkg/metrics"
)

type rateLimitStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// Services groups the domain services exposed over HTTP.
type Services struct {
	Auth       auth.Service
	Register   auth.RegisterService
	Profile    auth.ProfileService
	Products   product.Service
	Categories categories.Service
	Cart       cart.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	limiter rateLimitStore,
	sessions session.AccessSessionChecker,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisP,
		}))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(svc.Products, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(svc.Products, logg))
		r.Get("/categories", controllers.CategoryList(svc.Categories, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.CartSession(logg))
			r.Get("/", cartcontrollers.CartFetch(svc.Cart, logg))
			r.Delete("/", cartcontrollers.CartClear(svc.Cart, logg))
			r.Post("/items", cartcontrollers.CartAddItem(svc.Cart, logg))
			r.Patch("/items/{productId}", cartcontrollers.CartUpdateItem(svc.Cart, logg))
			r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(svc.Cart, logg))
		})
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		if cfg.App.SignupAllowed() {
			r.With(rateLimited(registerPolicy, limiter, logg)).Post("/register", controllers.AuthRegister(svc.Register, svc.Auth, cfg, logg))
		}
		r.With(rateLimited(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svc.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.AuthLogout(svc.Auth, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(logg, enums.AdminRoleAdmin))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(svc.Profile, logg))
			r.Put("/", controllers.ProfileUpdate(svc.Profile, logg))
			r.Delete("/", controllers.ProfileDelete(svc.Profile, svc.Auth, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(svc.Products, logg))
			r.Post("/", controllers.AdminCreateProduct(svc.Products, logg))
			r.Put("/{productId}", controllers.AdminUpdateProduct(svc.Products, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(svc.Products, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(svc.Products, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateCategory(svc.Categories, logg))
			r.Put("/{categoryId}", controllers.AdminRenameCategory(svc.Categories, logg))
			r.Delete("/{categoryId}", controllers.AdminDeleteCategory(svc.Categories, logg))
		})
	})

	return r
}

func rateLimited(policy middleware.AuthRateLimitPolicy, limiter rateLimitStore, logg *logger.Logger) func(http.Handler) http.Handler {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.AuthRateLimit(policy, limiter, logg)
}
