package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/oakhurst/lessonbook/internal/api/router"
	"github.com/oakhurst/lessonbook/internal/appointments"
	"github.com/oakhurst/lessonbook/internal/availability"
	"github.com/oakhurst/lessonbook/internal/calendar"
	appconfig "github.com/oakhurst/lessonbook/internal/config"
	"github.com/oakhurst/lessonbook/internal/catalog"
	"github.com/oakhurst/lessonbook/internal/customers"
	"github.com/oakhurst/lessonbook/internal/meetings"
	"github.com/oakhurst/lessonbook/internal/notify"
	"github.com/oakhurst/lessonbook/internal/observability/metrics"
	"github.com/oakhurst/lessonbook/internal/reports"
	"github.com/oakhurst/lessonbook/pkg/logging"
)

func main() {
	// Load .env in development; ignored when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lessonbook API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Storage: Postgres when configured, in-memory otherwise.
	var (
		apptRepo appointments.Repository
		custRepo customers.Repository
		avRepo   availability.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		apptRepo = appointments.NewPostgresRepository(pool)
		custRepo = customers.NewPostgresRepository(pool)
		avRepo = availability.NewPostgresRepository(pool)
		logger.Info("using postgres storage")
	} else {
		apptRepo = appointments.NewInMemoryRepository()
		custRepo = customers.NewInMemoryRepository()
		avRepo = availability.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory storage")
	}

	// Redis-backed policy store; defaults only when Redis is absent.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, policy overrides disabled", "error", err)
			redisClient = nil
		}
	}
	policyStore := catalog.NewPolicyStore(redisClient)
	lessonCatalog := catalog.NewCatalog()

	// External providers are optional; booking degrades gracefully without them.
	var meetingProvider appointments.MeetingProvider
	if cfg.MeetingClientID != "" {
		meetingProvider = meetings.NewSession(meetings.Config{
			BaseURL:      cfg.MeetingBaseURL,
			AccountID:    cfg.MeetingAccountID,
			ClientID:     cfg.MeetingClientID,
			ClientSecret: cfg.MeetingClientSecret,
		}, logger)
	}
	var calendarProvider appointments.CalendarProvider
	if cfg.CalendarClientID != "" {
		calendarProvider = calendar.NewSession(calendar.Config{
			BaseURL:      cfg.CalendarBaseURL,
			CalendarID:   cfg.CalendarID,
			ClientID:     cfg.CalendarClientID,
			ClientSecret: cfg.CalendarClientSecret,
			RefreshToken: cfg.CalendarRefreshToken,
		}, logger)
	}

	emailSender := notify.EmailSender(notify.NewStubEmailSender(logger))
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	}
	notifier := notify.NewService(emailSender, cfg.OwnerEmail, cfg.OwnerName, logger)

	bookingMetrics := metrics.NewBookingMetrics(nil)

	avService := availability.NewService(avRepo, lessonCatalog, policyStore, logger)
	apptService := appointments.NewService(appointments.ServiceConfig{
		Repo:      apptRepo,
		Customers: custRepo,
		Catalog:   lessonCatalog,
		Policy:    policyStore,
		Meetings:  meetingProvider,
		Calendar:  calendarProvider,
		Notifier:  notifier,
		Metrics:   bookingMetrics,
		Logger:    logger,
		OwnerID:   cfg.OwnerID,
	})
	reportsService := reports.NewService(apptRepo, custRepo, lessonCatalog, logger)

	routerCfg := &router.Config{
		Logger:              logger,
		AvailabilityHandler: availability.NewHandler(avService, cfg.OwnerID, logger),
		AppointmentsHandler: appointments.NewHandler(apptService, cfg.OwnerID, logger),
		CustomersHandler:    customers.NewHandler(custRepo, logger),
		CatalogHandler:      catalog.NewHandler(lessonCatalog, policyStore, logger),
		ReportsHandler:      reports.NewHandler(reportsService, logger),
		MetricsHandler:      promhttp.Handler(),
		JWTSecret:           cfg.JWTSecret,
		OwnerID:             cfg.OwnerID,
		RateLimitPerSecond:  cfg.RateLimitPerSecond,
		RateLimitBurst:      cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
