package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nairamart/storefront-backend/api/routes"
	"github.com/nairamart/storefront-backend/internal/cart"
	"github.com/nairamart/storefront-backend/internal/cartmanager"
	"github.com/nairamart/storefront-backend/internal/catalog"
	checkoutsvc "github.com/nairamart/storefront-backend/internal/checkout"
	"github.com/nairamart/storefront-backend/internal/coupon"
	"github.com/nairamart/storefront-backend/internal/notify"
	"github.com/nairamart/storefront-backend/internal/shipping"
	"github.com/nairamart/storefront-backend/internal/tax"
	"github.com/nairamart/storefront-backend/pkg/config"
	"github.com/nairamart/storefront-backend/pkg/logger"
	"github.com/nairamart/storefront-backend/pkg/metrics"
	"github.com/nairamart/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	catalogClient, err := catalog.NewClient(
		cfg.Catalog.BaseURL,
		catalog.WithCredentials(cfg.Catalog.ConsumerKey, cfg.Catalog.ConsumerSecret),
		catalog.WithTimeout(cfg.Catalog.Timeout),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}

	taxClient, err := tax.NewClient(cfg.Tax.BaseURL, tax.WithTimeout(cfg.Tax.Timeout))
	if err != nil {
		logg.Error(context.Background(), "failed to create tax client", err)
		os.Exit(1)
	}

	shippingClient, err := shipping.NewClient(cfg.Shipping.BaseURL, shipping.WithTimeout(cfg.Shipping.Timeout))
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping client", err)
		os.Exit(1)
	}

	persister, err := cart.NewRedisPersister(redisClient, cfg.Cart.PersistTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart persister", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recalcMetrics := metrics.NewRecalcMetrics(registry)

	// No coupon backend is integrated yet; a configured endpoint is noted so
	// the operator knows the setting has no effect.
	couponValidator := coupon.Validator(coupon.Disabled{})
	if cfg.Coupon.Enabled() {
		logg.Warn(context.Background(), "coupon endpoint configured but coupon validation is not integrated, coupons stay disabled")
	}

	manager, err := cartmanager.New(cartmanager.Params{
		Config: cart.Config{
			MaxQuantity:   cfg.Cart.MaxQuantity,
			Country:       cfg.Tax.Country,
			State:         cfg.Tax.State,
			TaxClass:      cfg.Tax.TaxClass,
			RecalcTimeout: cfg.Cart.RecalcTimeout,
		},
		Collaborators: cart.Collaborators{
			Tax:      taxClient,
			Shipping: shippingClient,
			Coupon:   couponValidator,
		},
		Persister: persister,
		Notifier:  notify.ContextNotifier{},
		Logger:    logg,
		Metrics:   recalcMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(catalogClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Manager:     manager,
			Catalog:     catalogClient,
			Checkout:    checkoutService,
			RedisPinger: redisClient,
			CatalogPing: catalogClient,
			Registry:    registry,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		logg.Info(ctx, "shutting down api server")

		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "error during server shutdown", err)
		}
		// Let in-flight recalculations persist their results before Redis
		// goes away.
		manager.Drain()
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
