package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tableside/internal/config"
	"tableside/internal/database"
	"tableside/internal/eventstore"
	"tableside/internal/logger"
	"tableside/internal/loyalty"
	"tableside/internal/messaging"
	"tableside/internal/metrics"
	"tableside/internal/services/customer"
	"tableside/internal/services/dashboard"
)

func main() {
	var (
		mode = flag.String("mode", "", "Service mode (customer-service, dashboard-service)")
		port = flag.Int("port", 3000, "HTTP port")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", requestID, fmt.Sprintf("Starting %s", *mode), map[string]interface{}{
		"mode": *mode,
		"port": *port,
	})

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", requestID, "Received shutdown signal", nil)
		cancel()
	}()

	switch *mode {
	case "customer-service":
		if err := runCustomerService(ctx, cfg, log, *port); err != nil {
			log.Error("service_failed", requestID, "Customer service failed", err, nil)
			os.Exit(1)
		}
	case "dashboard-service":
		if err := runDashboardService(ctx, cfg, log, *port); err != nil {
			log.Error("service_failed", requestID, "Dashboard service failed", err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", requestID, fmt.Sprintf("Unknown mode: %s", *mode), nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", requestID, "Service stopped gracefully", nil)
}

// newEventStore wires the shared PostgreSQL + RabbitMQ event store.
func newEventStore(ctx context.Context, cfg *config.Config, log *logger.Logger, requestID string) (*eventstore.PostgresStore, func(), error) {
	db, err := database.New(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Info("db_connected", requestID, "Connected to PostgreSQL database", nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to initialize messaging: %w", err)
	}
	log.Info("rabbitmq_connected", requestID, "Connected to RabbitMQ", nil)

	cleanup := func() {
		conn.Close()
		db.Close()
	}
	return eventstore.NewPostgresStore(db, conn, log), cleanup, nil
}

// runCustomerService runs the table-side customer API
func runCustomerService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	store, cleanup, err := newEventStore(ctx, cfg, log, requestID)
	if err != nil {
		return err
	}
	defer cleanup()

	var loyaltyStore *loyalty.Store
	if cfg.Redis.Enabled {
		loyaltyStore = loyalty.New(cfg.RedisAddr())
		defer loyaltyStore.Close()
		log.Info("redis_connected", requestID, "Loyalty store enabled", nil)
	}

	reg := metrics.NewRegistry()
	service := customer.NewService(store, loyaltyStore, reg, log)
	handler := customer.NewHandler(service, log)

	return serveHTTP(ctx, log, requestID, port, "Customer service", handler.Routes())
}

// runDashboardService runs the staff dashboard API
func runDashboardService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	store, cleanup, err := newEventStore(ctx, cfg, log, requestID)
	if err != nil {
		return err
	}
	defer cleanup()

	reg := metrics.NewRegistry()
	feed := dashboard.NewFeed(store, reg, log)
	if err := feed.Start(ctx); err != nil {
		return fmt.Errorf("failed to start order feed: %w", err)
	}
	defer feed.Stop()

	log.Info("feed_started", requestID, "Live order feed subscribed", nil)

	handler := dashboard.NewHandler(feed, reg, log)
	return serveHTTP(ctx, log, requestID, port, "Dashboard service", handler.Routes())
}

// serveHTTP runs an HTTP server until the context is cancelled
func serveHTTP(ctx context.Context, log *logger.Logger, requestID string, port int, name string, handler http.Handler) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
	}

	go func() {
		log.Info("http_listening", requestID, fmt.Sprintf("%s started on port %d", name, port), map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", requestID, "HTTP server failed", err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}
