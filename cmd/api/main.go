package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/brazzaeats/brazzaeats-backend/api/controllers"
	"github.com/brazzaeats/brazzaeats-backend/api/routes"
	"github.com/brazzaeats/brazzaeats-backend/internal/cart"
	"github.com/brazzaeats/brazzaeats-backend/internal/catalog"
	"github.com/brazzaeats/brazzaeats-backend/internal/checkout"
	"github.com/brazzaeats/brazzaeats-backend/internal/favorites"
	"github.com/brazzaeats/brazzaeats-backend/internal/notifications"
	"github.com/brazzaeats/brazzaeats-backend/internal/orders"
	"github.com/brazzaeats/brazzaeats-backend/internal/profile"
	"github.com/brazzaeats/brazzaeats-backend/internal/session"
	"github.com/brazzaeats/brazzaeats-backend/pkg/config"
	"github.com/brazzaeats/brazzaeats-backend/pkg/db"
	"github.com/brazzaeats/brazzaeats-backend/pkg/instance"
	"github.com/brazzaeats/brazzaeats-backend/pkg/logger"
	"github.com/brazzaeats/brazzaeats-backend/pkg/metrics"
	"github.com/brazzaeats/brazzaeats-backend/pkg/migrate"
	"github.com/brazzaeats/brazzaeats-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(runCtx, cfg.DB, logg)
	if err != nil {
		logg.Error(runCtx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(runCtx, cfg, logg, dbClient); err != nil {
		logg.Error(runCtx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var (
		redisClient  *redis.Client
		redisPinger  controllers.Pinger
		sessionStore session.Store
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(runCtx, cfg.Redis, logg)
		if err != nil {
			logg.Error(runCtx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		redisPinger = redisClient
		sessionStore, err = session.NewRedisStore(redisClient)
		if err != nil {
			logg.Error(runCtx, "failed to create redis session store", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(runCtx, "redis not configured, sessions are kept in memory")
		sessionStore = session.NewMemoryStore()
	}

	sessionManager, err := session.NewManager(session.ManagerParams{
		Store:          sessionStore,
		TTL:            cfg.Session.TTL(),
		StartingPoints: cfg.Pricing.StartingLoyaltyPoints,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(runCtx, "failed to create session manager", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(runCtx, "failed to create catalog service", err)
		os.Exit(1)
	}
	if cfg.App.IsDev() {
		summary, seeded, err := catalog.SeedIfEmpty(runCtx, catalogService, openSeed(cfg, logg))
		if err != nil {
			logg.Error(runCtx, "failed to seed catalog", err)
			os.Exit(1)
		}
		if seeded {
			logg.Info(logg.WithFields(runCtx, map[string]any{
				"restaurants": summary.Restaurants,
				"dishes":      summary.Dishes,
			}), "catalog seeded")
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pricer, err := cart.NewPricer(cfg.Pricing.FeePerRestaurant)
	if err != nil {
		logg.Error(runCtx, "failed to create pricer", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Sessions: sessionManager,
		Dishes:   catalogService,
		Pricer:   pricer,
		Metrics:  metrics.NewCartMetrics(registry),
	})
	if err != nil {
		logg.Error(runCtx, "failed to create cart service", err)
		os.Exit(1)
	}

	var archive orders.Archive
	if cfg.FeatureFlags.ArchiveOrders {
		archive = orders.NewArchive(dbClient.DB())
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Sessions:        sessionManager,
		Pricer:          pricer,
		Archive:         archive,
		LoyaltyAward:    cfg.Pricing.LoyaltyAwardPerOrder,
		DeliveryAddress: cfg.Pricing.DeliveryAddress,
		Currency:        cfg.Pricing.Currency,
		Metrics:         metrics.NewCheckoutMetrics(registry),
		Logger:          logg,
	})
	if err != nil {
		logg.Error(runCtx, "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Sessions: sessionManager,
		Archive:  archive,
		Receipts: orders.QRReceipts{Issuer: cfg.Session.Issuer},
	})
	if err != nil {
		logg.Error(runCtx, "failed to create orders service", err)
		os.Exit(1)
	}

	profileService, err := profile.NewService(sessionManager)
	if err != nil {
		logg.Error(runCtx, "failed to create profile service", err)
		os.Exit(1)
	}
	favoritesService, err := favorites.NewService(sessionManager)
	if err != nil {
		logg.Error(runCtx, "failed to create favorites service", err)
		os.Exit(1)
	}
	notificationsService, err := notifications.NewService(sessionManager)
	if err != nil {
		logg.Error(runCtx, "failed to create notifications service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(runCtx, map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"instance":      instance.GetID(),
		"db_driver":     dbClient.Driver(),
		"session_store": sessionStoreName(redisClient),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisPinger, registry, sessionManager,
			catalogService, cartService, checkoutService, ordersService,
			profileService, favoritesService, notificationsService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdown(shutdownCtx, server, sessionManager, dbClient, redisClient); err != nil {
		logg.Error(ctx, "shutdown completed with errors", err)
		exitCode = 1
	} else {
		logg.Info(ctx, "api server stopped")
	}
	os.Exit(exitCode)
}

// shutdown drains HTTP traffic, refreshes live sessions and closes the
// backing stores in that order.
func shutdown(ctx context.Context, server *http.Server, sessions *session.Manager, dbClient *db.Client, redisClient *redis.Client) error {
	var err error
	err = multierr.Append(err, server.Shutdown(ctx))
	err = multierr.Append(err, sessions.Flush(ctx))
	if redisClient != nil {
		err = multierr.Append(err, redisClient.Close())
	}
	err = multierr.Append(err, dbClient.Close())
	return err
}

func openSeed(cfg *config.Config, logg *logger.Logger) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		rc, err := migrate.OpenSeed(cfg.Catalog.SeedFile)
		if errors.Is(err, fs.ErrNotExist) {
			logg.Warn(logg.WithField(context.Background(), "seed_file", cfg.Catalog.SeedFile), "seed file missing, using embedded catalog")
			return migrate.OpenSeed("")
		}
		return rc, err
	}
}

func sessionStoreName(redisClient *redis.Client) string {
	if redisClient != nil {
		return "redis"
	}
	return "memory"
}
