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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"hospital-appointments-server/internal/appointments"
	"hospital-appointments-server/internal/config"
	"hospital-appointments-server/internal/handlers"
	"hospital-appointments-server/internal/logging"
	"hospital-appointments-server/internal/metrics"
	"hospital-appointments-server/internal/middleware"
	"hospital-appointments-server/internal/models"
	"hospital-appointments-server/internal/notify"
	"hospital-appointments-server/internal/passwordreset"
	"hospital-appointments-server/internal/repository"
	"hospital-appointments-server/internal/routes"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hospital-appointments-server",
		Short: "Hospital appointment scheduling API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel, cfg.Environment)

			db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN()})
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			if err := models.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info().Msg("database schema is up to date")
			return nil
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.New(cfg.LogLevel, cfg.Environment)

	// Database
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN()})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	logger.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Name).Msg("connected to database")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	lifecycleMetrics := metrics.NewLifecycleMetrics(registry)

	// Email
	sender, closeSender, err := newEmailSender(ctx, cfg.Mail, logger)
	if err != nil {
		return err
	}
	defer closeSender()
	mailer := notify.NewMailer(sender, logger.With().Str("component", "mailer").Logger())

	// Services
	appointmentRepo := repository.NewAppointmentRepository(db)
	directory := repository.NewDirectoryRepository(db)

	engine := appointments.NewEngine(appointmentRepo, directory, mailer,
		appointments.WithLogger(logger.With().Str("component", "appointments").Logger()),
		appointments.WithMetrics(lifecycleMetrics),
	)
	resets := passwordreset.NewService(directory, mailer,
		passwordreset.WithTTL(cfg.ResetTTL()),
		passwordreset.WithHasher(models.HashPassword),
		passwordreset.WithVerifier(models.CheckPasswordHash),
		passwordreset.WithLogger(logger.With().Str("component", "passwordreset").Logger()),
		passwordreset.WithMetrics(lifecycleMetrics),
	)

	// Router
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery(logger), middleware.RequestID(), middleware.Logger(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, routes.Handlers{
		Auth:          handlers.NewAuthHandler(directory, cfg.JWT.Secret, cfg.JWT.TTL()),
		Appointments:  handlers.NewAppointmentHandler(engine),
		PasswordReset: handlers.NewPasswordResetHandler(resets),
		Metrics:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, cfg.JWT.Secret)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("mail_transport", cfg.Mail.Transport).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
