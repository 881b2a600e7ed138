package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	h "github.com/gorilla/handlers"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stanstork/timeline-notify/internal/config"
	"github.com/stanstork/timeline-notify/internal/errorreport"
	"github.com/stanstork/timeline-notify/internal/handlers"
	"github.com/stanstork/timeline-notify/internal/middleware"
	"github.com/stanstork/timeline-notify/internal/migration"
	"github.com/stanstork/timeline-notify/internal/plugin"
	"github.com/stanstork/timeline-notify/internal/plugins/notification"
	"github.com/stanstork/timeline-notify/internal/repository"
	"github.com/stanstork/timeline-notify/internal/routes"
)

type application struct {
	config   *config.Config
	db       *sql.DB
	logger   zerolog.Logger
	reporter *errorreport.Service
	registry *plugin.Registry
}

func runServe(configPath string) error {
	cfg, logger, err := setup(configPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal().Msg("database_url must be set in the config file")
	}

	// Initialize database connection.
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ping database")
	}

	// Run database migrations.
	if err := migration.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	app := &application{
		config:   cfg,
		db:       db,
		logger:   logger,
		reporter: newReporter(cfg, db, logger),
		registry: plugin.NewRegistry(),
	}

	// Plugins are fully initialized before the server accepts requests.
	if err := app.initPlugins(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize plugins")
	}

	// Initialize the HTTP router and middleware.
	router := app.initRouter()
	loggedRouter := middleware.LoggingMiddleware(app.logger, app.registry.SecretPrefixes()...)(router)
	recovered := h.RecoveryHandler(h.PrintRecoveryStack(true), h.RecoveryLogger(&recoveryLogger{logger}))(loggedRouter)
	corsHandler := h.CORS(
		h.AllowedOrigins(cfg.CORS.AllowedOrigins),
		h.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		h.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		h.AllowCredentials(),
	)(recovered)

	// Start the HTTP server and handle graceful shutdown.
	app.startServer(corsHandler)

	logger.Info().Msg("Application terminated.")
	return nil
}

func newReporter(cfg *config.Config, db *sql.DB, logger zerolog.Logger) *errorreport.Service {
	notifiers := []errorreport.Notifier{
		errorreport.NewStoreNotifier(repository.NewErrorReportRepository(db)),
		errorreport.NewWebhookNotifier(cfg.ErrorReport, nil, logger),
	}

	email, err := errorreport.NewEmailNotifier(cfg.Email, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure email notifier")
	}
	if email != nil {
		notifiers = append(notifiers, email)
	}

	return errorreport.NewService(logger, cfg.ErrorReport.Timeout, notifiers...)
}

func (app *application) initPlugins(ctx context.Context) error {
	if err := app.registry.Register(notification.Kind, notification.New); err != nil {
		return err
	}
	return app.registry.Init(ctx, plugin.Data{
		Config:   app.config,
		Database: repository.NewEventRepository(app.db),
		Reporter: app.reporter,
		Fs:       afero.NewOsFs(),
		Logger:   app.logger,
	})
}

// initRouter sets up all HTTP handlers and returns the router.
func (app *application) initRouter() http.Handler {
	authHandler := handlers.NewAuthHandler(app.config, app.logger)
	timelineHandler := handlers.NewTimelineHandler(app.registry, app.logger)
	errorReportHandler := handlers.NewErrorReportHandler(repository.NewErrorReportRepository(app.db), app.logger)

	return routes.NewRouter(app.registry, authHandler, timelineHandler, errorReportHandler)
}

// startServer launches the HTTP server and handles graceful shutdown.
func (app *application) startServer(handler http.Handler) {
	logger := app.logger
	server := &http.Server{
		Addr:         ":" + app.config.ServerPort,
		Handler:      handler,
		ReadTimeout:  app.config.ReadTimeout,
		WriteTimeout: app.config.WriteTimeout,
	}

	// Channel to listen for server errors
	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// Wait for an interrupt signal or a server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info().Msgf("Received signal: %s. Shutting down...", sig)
	case err := <-serverErrCh:
		logger.Error().Err(err).Msg("Server error occurred")
	}

	// Gracefully shut down the HTTP server.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		logger.Info().Msg("HTTP server shutdown complete.")
	}

	// Let in-flight error reports finish.
	logger.Info().Msg("Waiting for error reports...")
	app.reporter.Wait()
}

type recoveryLogger struct {
	logger zerolog.Logger
}

func (l *recoveryLogger) Println(v ...interface{}) {
	l.logger.Error().Interface("panic", v).Msg("recovered from panic")
}
