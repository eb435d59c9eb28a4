package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cataloghttp "github.com/avillagarcia/academia/internal/catalog/adapters/http"
	catalogpostgres "github.com/avillagarcia/academia/internal/catalog/adapters/postgres"
	"github.com/avillagarcia/academia/internal/config"
	"github.com/avillagarcia/academia/internal/database"
	enrollhttp "github.com/avillagarcia/academia/internal/enrollment/adapters/http"
	enrollpostgres "github.com/avillagarcia/academia/internal/enrollment/adapters/postgres"
	enrollapp "github.com/avillagarcia/academia/internal/enrollment/app"
	enrollmetrics "github.com/avillagarcia/academia/internal/enrollment/metrics"
	enrollports "github.com/avillagarcia/academia/internal/enrollment/ports"
	"github.com/avillagarcia/academia/internal/events"
	"github.com/avillagarcia/academia/internal/httpapi"
	idempostgres "github.com/avillagarcia/academia/internal/idempotency/postgres"
	"github.com/avillagarcia/academia/internal/moodle"
	"github.com/avillagarcia/academia/internal/notification"
	ordershttp "github.com/avillagarcia/academia/internal/orders/adapters/http"
	orderspostgres "github.com/avillagarcia/academia/internal/orders/adapters/postgres"
	ordersapp "github.com/avillagarcia/academia/internal/orders/app"
	orderscommands "github.com/avillagarcia/academia/internal/orders/app/commands"
	ordersmetrics "github.com/avillagarcia/academia/internal/orders/metrics"
	paymentshttp "github.com/avillagarcia/academia/internal/payments/adapters/http"
	paymentspostgres "github.com/avillagarcia/academia/internal/payments/adapters/postgres"
	paymentsapp "github.com/avillagarcia/academia/internal/payments/app"
	paymentsmetrics "github.com/avillagarcia/academia/internal/payments/metrics"
	"github.com/avillagarcia/academia/internal/payments/webhook"
	"github.com/avillagarcia/academia/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(parseLogLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
		if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations completed")
	}

	meter := otel.GetMeterProvider().Meter(cfg.Service.Name)

	httpMetrics, err := httpapi.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create http metrics", "error", err)
		os.Exit(1)
	}
	eventMetrics, err := events.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create event metrics", "error", err)
		os.Exit(1)
	}
	paymentMetrics, err := paymentsmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create payment metrics", "error", err)
		os.Exit(1)
	}
	enrollMetrics, err := enrollmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create enrollment metrics", "error", err)
		os.Exit(1)
	}
	orderMetrics, err := ordersmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create order metrics", "error", err)
		os.Exit(1)
	}

	catalogRepo := catalogpostgres.NewRepository(pool)
	ordersRepo := orderspostgres.NewRepository(pool)
	paymentsRepo := paymentspostgres.NewRepository(pool)
	enrollRepo := enrollpostgres.NewRepository(pool)
	idemStore := idempostgres.NewStore(pool)

	eventBus := events.NewObservableBus(events.NewNoopBus(), eventMetrics)

	var gateway enrollports.LMSGateway
	if cfg.Moodle.Simulate || cfg.Moodle.URL == "" {
		logger.Info("using simulated lms gateway")
		gateway = moodle.NewSimulator(logger)
	} else {
		gateway = moodle.NewClient(cfg.Moodle.URL, cfg.Moodle.Token, cfg.Moodle.Timeout)
	}

	sink := notification.NewMemorySink(logger)
	mailer := notification.NewMailer(sink)

	enrollService := enrollapp.NewService(
		enrollRepo,
		catalogRepo,
		enrollRepo,
		gateway,
		mailer,
		eventBus,
		logger,
		cfg.Moodle.StudentRoleID,
	)
	enroller := enrollapp.NewObservableOrchestrator(enrollService, logger, enrollMetrics)

	paymentService := paymentsapp.NewService(
		paymentsRepo,
		paymentsRepo,
		mailer,
		enroller,
		eventBus,
		idemStore,
		logger,
		paymentMetrics,
	)

	createOrderHandler := orderscommands.NewObservableCommandHandler(
		orderscommands.NewCreateOrderCommandHandler(ordersRepo, catalogRepo, eventBus),
		logger,
		orderMetrics,
	)
	orderService := ordersapp.NewService(ordersRepo, createOrderHandler)

	validator := webhook.NewValidator(cfg.Webhook.Secret)

	router := chi.NewRouter()
	router.Use(httpapi.WithRecovery(logger))
	router.Use(httpapi.WithLogging(logger))
	router.Use(httpapi.WithMetrics(httpMetrics))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpapi.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.CheckHealth(r.Context(), pool); err != nil {
			httpapi.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
		httpapi.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	cataloghttp.NewHandler(catalogRepo, catalogRepo).Register(router)
	ordershttp.NewHandler(orderService).Register(router)
	paymentshttp.NewHandler(paymentService, validator).Register(router)
	enrollhttp.NewHandler(enroller, enrollRepo, gateway, cfg.Moodle.StudentRoleID).Register(router)
	notification.NewDevHandler(sink).Register(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("http server stopped")
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
