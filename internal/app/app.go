package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PaymentIntake/config"
	controller "PaymentIntake/internal/controller/http"
	"PaymentIntake/internal/controller/http/handlers"
	"PaymentIntake/internal/domain/checkout"
	"PaymentIntake/internal/domain/order"
	"PaymentIntake/internal/external/kafka"
	"PaymentIntake/internal/external/stripe"
	"PaymentIntake/internal/messaging"
	order_repo "PaymentIntake/internal/repo/order"
	"PaymentIntake/pkg/health"
	"PaymentIntake/pkg/logger"
	"PaymentIntake/pkg/postgres"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func Run(cfg config.Config) error {
	logger.Setup(logger.Options{Level: cfg.LogLevel, Console: cfg.LogFormat == "console"})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
	if err != nil {
		return fmt.Errorf("app - Run - postgres.New: %w", err)
	}
	defer pool.Close()

	if err := ApplyMigrations(cfg.PgURL, MigrationFS); err != nil {
		return fmt.Errorf("app - Run - ApplyMigrations: %w", err)
	}

	stripeClient, err := stripe.NewClient(cfg.StripeSecretKey,
		stripe.WithAPIURL(cfg.StripeAPIURL),
		stripe.WithHTTPClient(&http.Client{Timeout: cfg.HTTPStripeClientTimeout}),
	)
	if err != nil {
		return fmt.Errorf("app - Run - stripe.NewClient: %w", err)
	}

	checkers := []health.Checker{health.NewPostgresChecker(pool.Pool)}

	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaOrdersTopic)
		checkers = append(checkers, health.NewKafkaChecker(cfg.KafkaBrokers))
		slog.Info("Order change notifications enabled", "topic", cfg.KafkaOrdersTopic)
	}
	defer publisher.Close()

	// Services
	checkoutService := checkout.NewService(stripeClient, checkout.Config{
		Catalog:    cfg.PriceCatalog,
		SuccessURL: cfg.SuccessURL,
		CancelURL:  cfg.CancelURL,
		AppTag:     cfg.AppTag,
	})
	orderService := order.NewOrderService(
		order_repo.NewPgOrderRepo(pool),
		messaging.NewOrderNotifier(publisher),
	)

	// Handlers
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, handlers.CheckoutConfig{
		StripeSecretKey: cfg.StripeSecretKey,
	})
	webhookHandler := handlers.NewWebhookHandler(
		stripe.NewWebhookVerifier(cfg.StripeWebhookSecret),
		orderService,
		handlers.WebhookConfig{
			StripeSecretKey:     cfg.StripeSecretKey,
			StripeWebhookSecret: cfg.StripeWebhookSecret,
		},
	)

	engine := NewGinEngine()
	controller.NewRouter(checkoutHandler, webhookHandler, health.NewRegistry(checkers...)).SetUp(engine)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
