package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/polly-storefront/api/routes"
	"github.com/angelmondragon/polly-storefront/internal/admins"
	"github.com/angelmondragon/polly-storefront/internal/auth"
	"github.com/angelmondragon/polly-storefront/internal/cart"
	"github.com/angelmondragon/polly-storefront/internal/categories"
	"github.com/angelmondragon/polly-storefront/internal/notifications"
	product "github.com/angelmondragon/polly-storefront/internal/products"
	"github.com/angelmondragon/polly-storefront/pkg/auth/session"
	"github.com/angelmondragon/polly-storefront/pkg/config"
	"github.com/angelmondragon/polly-storefront/pkg/db"
	"github.com/angelmondragon/polly-storefront/pkg/kvstore"
	"github.com/angelmondragon/polly-storefront/pkg/logger"
	"github.com/angelmondragon/polly-storefront/pkg/metrics"
	"github.com/angelmondragon/polly-storefront/pkg/migrate"
	"github.com/angelmondragon/polly-storefront/pkg/redis"
	"github.com/angelmondragon/polly-storefront/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "polly-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "polly-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, db.Options{UseSQLite: cfg.FeatureFlags.UseSQLite}, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	closeAll := func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}
	defer closeAll()

	kv, err := kvstore.Open(cfg.Cart, redisClient, dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to open cart store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cartMetrics := metrics.NewCartMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	hasher := security.NewHasher(cfg.Password)
	adminRepo := admins.NewRepository(dbClient.DB())
	productRepo := product.NewRepository(dbClient.DB())

	services, err := buildServices(cfg, logg, dbClient, adminRepo, productRepo, sessionManager, hasher, kv, cartMetrics)
	if err != nil {
		logg.Error(ctx, "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	runCtx := logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"cart_backend": cfg.Cart.Backend,
		"db_dialect":   dbClient.Dialect(),
	})
	logg.Info(runCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, redisClient, sessionManager, registry, httpMetrics, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok && err != nil {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			closeAll()
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(runCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(runCtx, "graceful shutdown failed", err)
	}
	logg.Info(runCtx, "api server stopped")
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	adminRepo *admins.Repository,
	productRepo *product.Repository,
	sessionManager *session.Manager,
	hasher *security.Hasher,
	kv kvstore.Store,
	cartMetrics *metrics.CartMetrics,
) (routes.Services, error) {
	authService, err := auth.NewService(auth.ServiceParams{
		AdminRepo:      adminRepo,
		SessionManager: sessionManager,
		Hasher:         hasher,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Services{}, err
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		AdminRepo: adminRepo,
		Hasher:    hasher,
	})
	if err != nil {
		return routes.Services{}, err
	}

	profileService, err := auth.NewProfileService(auth.ProfileServiceParams{
		DB:     dbClient,
		Hasher: hasher,
	})
	if err != nil {
		return routes.Services{}, err
	}

	productService, err := product.NewService(productRepo)
	if err != nil {
		return routes.Services{}, err
	}

	categoryService, err := categories.NewService(categories.NewRepository(dbClient.DB()))
	if err != nil {
		return routes.Services{}, err
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		KV:      kv,
		Catalog: product.NewCartCatalog(productRepo),
		Sink: notifications.Fanout{
			notifications.ContextSink{},
			notifications.NewLogSink(logg),
		},
		Logger:               logg,
		Metrics:              cartMetrics,
		Namespace:            cfg.Cart.Namespace,
		NotificationDuration: cfg.Cart.NotificationDuration,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:       authService,
		Register:   registerService,
		Profile:    profileService,
		Products:   productService,
		Categories: categoryService,
		Cart:       cartService,
	}, nil
}
