package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/identity"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Order ledger
	if cfg.Database.Migrate {
		if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	orderRepo := repository.NewOrderRepository(pool, logger)

	// S3 client, shared by the cart slot and the admin allow-list
	var s3Client *s3.Client
	if cfg.S3.Enabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3.Region))
		if err != nil {
			return fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client = s3.NewFromConfig(awsCfg)
		logger.Info().
			Str("bucket", cfg.S3.Bucket).
			Str("region", cfg.S3.Region).
			Msg("S3 client initialised")
	}

	// Cart persistence and live sessions
	slot, closeSlot, err := newSlot(cfg, s3Client, logger)
	if err != nil {
		return err
	}
	defer closeSlot()

	persister := cart.NewPersister(slot, cfg.Cart.WriteTimeout, logger)
	sessions := cart.NewSessions(persister, cfg.Cart.SessionIdle, logger)
	defer sessions.Close()
	go sessions.Run(ctx)

	calculator := pricing.NewCalculator(pricing.Policy{
		ShippingCost: cfg.Pricing.ShippingCost,
		TaxRate:      cfg.Pricing.TaxRate,
	})

	// Remote collaborators
	catalogClient := catalog.NewClient(catalog.Options{
		BaseURL:         cfg.Catalog.BaseURL,
		Timeout:         cfg.Catalog.Timeout,
		BreakerFailures: uint32(cfg.Catalog.BreakerFailures),
		BreakerCooldown: cfg.Catalog.BreakerCooldown,
	}, logger)

	admins, err := loadAdmins(ctx, cfg, s3Client, logger)
	if err != nil {
		return fmt.Errorf("failed to load admin allow-list: %w", err)
	}
	roles := identity.NewRoleResolver(admins, logger)

	var identityGateway identity.Gateway
	if cfg.Identity.BaseURL != "" {
		identityGateway = identity.NewHTTPGateway(cfg.Identity.BaseURL, cfg.Catalog.Timeout, logger)
	} else {
		logger.Warn().Msg("IDENTITY_BASE_URL not set, sign-in and admin routes are disabled")
	}

	processor := checkout.NewSimulatedProcessor(cfg.Payment.SimulatedDelay, logger)

	// Initialize services
	cartService := service.NewCartService(sessions, catalogClient, calculator, logger)
	catalogService := service.NewCatalogService(catalogClient, logger)
	checkoutService := service.NewCheckoutService(sessions, processor, orderRepo, calculator, service.CheckoutOptions{
		Currency:       cfg.Pricing.Currency,
		PaymentTimeout: cfg.Payment.Timeout,
	}, logger)
	orderService := service.NewOrderService(orderRepo, logger)
	identityService := service.NewIdentityService(identityGateway, roles, logger)

	// Initialize HTTP handlers and router
	mux := router.New(router.Handlers{
		Cart:     handler.NewCartHandler(cartService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, logger),
		Catalog:  handler.NewCatalogHandler(catalogService, logger),
		Admin:    handler.NewAdminHandler(catalogService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Me:       handler.NewMeHandler(logger),
	}, identityService, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Payment.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("cart_backend", cfg.Cart.SlotBackend).
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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newSlot builds the configured cart slot backend and its cleanup.
func newSlot(cfg *config.Config, s3Client *s3.Client, logger zerolog.Logger) (cart.Slot, func(), error) {
	switch cfg.Cart.SlotBackend {
	case config.SlotBackendFile:
		slot, err := cart.NewFileSlot(cfg.Cart.SlotDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("dir", cfg.Cart.SlotDir).Msg("using file cart slots")
		return slot, func() {}, nil

	case config.SlotBackendS3:
		logger.Info().
			Str("bucket", cfg.S3.Bucket).
			Str("prefix", cfg.S3.CartPrefix).
			Msg("using S3 cart slots")
		return cart.NewS3Slot(s3Client, cfg.S3.Bucket, cfg.S3.CartPrefix, logger), func() {}, nil

	default:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("using redis cart slots")
		return cart.NewRedisSlot(client, cfg.Cart.SlotTTL), func() {
			if err := client.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close redis client")
			}
		}, nil
	}
}

// loadAdmins merges the allow-list file (S3 first, then local) with
// ADMIN_EMAILS.
func loadAdmins(ctx context.Context, cfg *config.Config, s3Client *s3.Client, logger zerolog.Logger) (identity.EmailSet, error) {
	admins := identity.ParseEmailList(cfg.Identity.AdminEmails)

	fileLoader := identity.NewFileLoader(logger)
	var loader identity.Loader = fileLoader
	if s3Client != nil {
		loader = identity.NewFallbackLoader(
			identity.NewS3Loader(s3Client, cfg.S3.Bucket, logger),
			cfg.S3.AdminListKey,
			fileLoader,
			logger,
		)
	}

	if cfg.Identity.AdminListPath != "" || s3Client != nil {
		set, err := loader.Load(ctx, cfg.Identity.AdminListPath)
		if err != nil {
			return nil, err
		}
		if emails, ok := set.(*identity.Emails); ok {
			admins.Merge(emails)
		}
	}

	logger.Info().Int("admins", admins.Size()).Msg("admin allow-list loaded")
	return admins, nil
}
