package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"

	"storefront/internal/admin"
	"storefront/internal/auth"
	"storefront/internal/backend"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/httpx"
	"storefront/internal/payment"
	"storefront/internal/records"
	"storefront/internal/session"
	"storefront/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	metrics, err := telemetry.NewMetrics(otel.Meter(cfg.ServiceName))
	if err != nil {
		logger.Error("failed to create metrics", "error", err)
		os.Exit(1)
	}

	var store session.Store
	if cfg.RedisAddr != "" {
		store = session.NewRedisStore(session.NewRedisClient(cfg.RedisAddr))
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	} else {
		store = session.NewMemoryStore()
	}
	sessions := session.NewManager(store, logger)

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	client := backend.NewClient(cfg.BackendURL, httpClient, sessions, logger)

	embeds := payment.NewRenderer(cfg.PaymentScriptURL, cfg.PaymentRedirectURL)

	catalogSvc := catalog.NewService(client, metrics, logger)
	checkoutSvc := checkout.NewService(client, sessions, embeds, metrics, cfg.Currency, logger)
	recordsSvc := records.NewService(client, logger)
	adminSvc := admin.NewService(client, logger)

	router := httpx.NewRouter(metricsHandler)
	router.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)
		auth.NewHandler(sessions, logger).Register(r)
		catalog.NewHandler(catalogSvc, sessions, logger).Register(r)
		checkout.NewHandler(checkoutSvc, sessions, logger).Register(r)
		records.NewHandler(recordsSvc, sessions, logger).Register(r)
		admin.NewHandler(adminSvc, logger).Register(r)
	})

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: otelhttp.NewHandler(router, cfg.ServiceName,
			otelhttp.WithSpanNameFormatter(telemetry.SpanName),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting storefront", "addr", cfg.HTTPAddr, "backend", cfg.BackendURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
