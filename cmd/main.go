package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YelzhanWeb/coffee-shop/internal/adapter/logger"
	"github.com/YelzhanWeb/coffee-shop/internal/adapter/postgres"
	"github.com/YelzhanWeb/coffee-shop/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/coffee-shop/internal/app/maintenance"
	"github.com/YelzhanWeb/coffee-shop/internal/app/menu"
	"github.com/YelzhanWeb/coffee-shop/internal/app/order"
	"github.com/YelzhanWeb/coffee-shop/internal/config"
	"github.com/YelzhanWeb/coffee-shop/internal/interfaces"

	amqpAdapter "github.com/YelzhanWeb/coffee-shop/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/coffee-shop/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "pos-service", "Service mode: pos-service, notification-subscriber")
	configPath := flag.String("config", "config.yaml", "Path to the yaml config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	lgr := logger.New(*mode, logger.ParseLevel(cfg.Log.Level))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "pos-service":
		if err := runPOSService(ctx, cfg, lgr); err != nil {
			lgr.Error("service_failed", "POS service stopped with error", "runtime", nil, err)
			os.Exit(1)
		}

	case "notification-subscriber":
		if err := runNotificationSubscriber(ctx, cfg, lgr); err != nil {
			lgr.Error("service_failed", "Notification subscriber stopped with error", "runtime", nil, err)
			os.Exit(1)
		}

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runPOSService(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	initializer := postgres.NewInitializer(db)
	if err := initializer.Ensure(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Events are optional: without a broker orders are still placed.
	var publisher interfaces.EventPublisher = interfaces.NoopPublisher{}
	if cfg.RabbitMQ.Enabled() {
		mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			return err
		}
		defer mqConn.Close()
		publisher = rabbitmq.NewPublisher(mqConn)

		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
			"host": cfg.RabbitMQ.Host,
		})
	}

	menuService := menu.NewService(postgres.NewMenuRepository(db), lgr)
	orderService := order.NewService(postgres.NewOrderRepository(db), publisher, lgr, cfg.Inventory.AlertThreshold)
	maintenanceService := maintenance.NewService(initializer, lgr, cfg.Maintenance.Interval())

	if err := maintenanceService.Start(ctx); err != nil {
		return err
	}
	defer maintenanceService.Stop()

	handler := httpAdapter.NewRouter(
		httpAdapter.NewMenuHandler(menuService, lgr, cfg.Inventory.AlertThreshold),
		httpAdapter.NewOrderHandler(orderService, lgr),
		httpAdapter.NewAdminHandler(maintenanceService, lgr),
		lgr,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("POS service started on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port":             cfg.Server.Port,
		"update_interval":  cfg.Maintenance.IntervalSeconds,
		"events_published": cfg.RabbitMQ.Enabled(),
	})

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lgr.Info("shutdown_initiated", "Shutting down POS service", "shutdown", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
	}
	return nil
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	if !cfg.RabbitMQ.Enabled() {
		return errors.New("notification-subscriber needs RABBITMQ_HOST")
	}

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn, lgr)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr, os.Stdout)

	lgr.Info("service_started", "Notification Subscriber started", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	err = consumer.ConsumeEvents(ctx, notificationHandler.HandleEvent)

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
