package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/bank-ledger/internal/config"
	"github.com/sheikh-saqib/bank-ledger/internal/events/kafka"
	accounts_http "github.com/sheikh-saqib/bank-ledger/internal/handler/http/accounts"
	"github.com/sheikh-saqib/bank-ledger/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger/internal/logger"
	"github.com/sheikh-saqib/bank-ledger/internal/storage/memory"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// run owns every deferred cleanup, so main only exits after they ran.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = appLogger.Sync() }()

	opts := []ledger.Option{
		ledger.WithLogger(appLogger.With(zap.String("component", "Ledger"))),
		ledger.WithTopic(cfg.KafkaTopic),
	}
	if cfg.PublishingEnabled() {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, appLogger.With(zap.String("component", "KafkaPublisher")))
		defer func() {
			if err := publisher.Close(); err != nil {
				appLogger.Error("Error closing Kafka publisher", zap.Error(err))
			}
		}()
		opts = append(opts, ledger.WithPublisher(publisher))
		appLogger.Info("Publishing transaction events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	} else {
		appLogger.Info("No Kafka brokers configured, transaction events are not published")
	}

	ledgerService := ledger.NewLedger(memory.NewMemoryAccountStore(), opts...)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	accounts_http.RegisterRoutes(router, ledgerService, appLogger)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	return serve(httpServer, stop, cfg.ShutdownTimeout, appLogger)
}

// serve runs srv until a signal arrives on stop or the listener fails.
// A signal leads to a graceful shutdown bounded by shutdownTimeout.
func serve(srv *http.Server, stop <-chan os.Signal, shutdownTimeout time.Duration, appLogger *zap.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		appLogger.Error("HTTP server failed", zap.Error(err))
		return fmt.Errorf("http server: %w", err)
	}

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	appLogger.Info("Server stopped")
	return nil
}
