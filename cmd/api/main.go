package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"duper-mart/internal/config"
	"duper-mart/internal/database"
	"duper-mart/internal/handler"
	"duper-mart/internal/repository"
	"duper-mart/internal/repository/embedded"
	"duper-mart/internal/router"
	"duper-mart/internal/seed"
	"duper-mart/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// repositories bundles the per-backend data access implementations.
type repositories struct {
	users     repository.UserRepository
	products  repository.ProductRepository
	carts     repository.CartRepository
	orders    repository.OrderRepository
	watchlist repository.WatchlistRepository
}

func run() error {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("store_driver", cfg.Store.Driver).Msg("starting duper-mart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the persistence backend
	var repos repositories
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		repos = repositories{
			users:     repository.NewUserRepository(pool, logger),
			products:  repository.NewProductRepository(pool, logger),
			carts:     repository.NewCartRepository(pool, logger),
			orders:    repository.NewOrderRepository(pool, logger),
			watchlist: repository.NewWatchlistRepository(pool, logger),
		}

	case config.StoreDriverEmbedded:
		db, err := database.OpenEmbedded(ctx, cfg.Store.EmbeddedDSN, logger)
		if err != nil {
			return fmt.Errorf("failed to open embedded store: %w", err)
		}
		defer db.Close()

		if err := embedded.Bootstrap(ctx, db, logger); err != nil {
			return fmt.Errorf("failed to bootstrap embedded store: %w", err)
		}

		repos = repositories{
			users:     embedded.NewUserRepository(db, logger),
			products:  embedded.NewProductRepository(db, logger),
			carts:     embedded.NewCartRepository(db, logger),
			orders:    embedded.NewOrderRepository(db, logger),
			watchlist: embedded.NewWatchlistRepository(db, logger),
		}

	default:
		return fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}

	// Seed the catalogue on an empty store
	if cfg.Seed.Enabled {
		fileLoader := seed.NewFileLoader(logger)
		var catalogLoader seed.Loader = fileLoader

		if cfg.Seed.S3 {
			s3Loader, err := seed.NewS3Loader(ctx, cfg.Seed.S3Bucket, cfg.Seed.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 loader, falling back to local file system only")
			} else {
				catalogLoader = seed.NewFallbackLoader(s3Loader, fileLoader, cfg.Seed.S3Prefix, true, logger)
			}
		}

		seeder := seed.NewSeeder(repos.products, catalogLoader, logger)
		if err := seeder.Seed(ctx, cfg.Seed.File); err != nil {
			return fmt.Errorf("failed to seed catalogue: %w", err)
		}
	}

	// Initialize services
	catalogService := service.NewCatalogService(repos.products, logger)
	cartService := service.NewCartService(repos.carts, repos.products, repos.users, logger)
	orderService := service.NewOrderService(repos.orders, repos.products, repos.carts, repos.users, cfg.Order.StrictStatuses, logger)
	statsService := service.NewStatsService(repos.orders, repos.users, logger)
	watchlistService := service.NewWatchlistService(repos.watchlist, repos.products, repos.users, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(catalogService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	statsHandler := handler.NewStatsHandler(statsService, logger)
	watchlistHandler := handler.NewWatchlistHandler(watchlistService, logger)

	// Initialize router
	mux := router.New(
		productHandler,
		cartHandler,
		orderHandler,
		statsHandler,
		watchlistHandler,
		cfg.Auth.APIKey,
		cfg.Auth.AdminKey,
		logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
