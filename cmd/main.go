package main

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

	"github.com/Dosada05/pickleball-portal/config"
	"github.com/Dosada05/pickleball-portal/db"
	"github.com/Dosada05/pickleball-portal/handlers"
	"github.com/Dosada05/pickleball-portal/live"
	"github.com/Dosada05/pickleball-portal/middleware"
	"github.com/Dosada05/pickleball-portal/repositories"
	api "github.com/Dosada05/pickleball-portal/routes"
	"github.com/Dosada05/pickleball-portal/services"
	"github.com/Dosada05/pickleball-portal/storage"
	"github.com/Dosada05/pickleball-portal/views"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("storage", cfg.StorageDriver))

	dbConn, err := db.Connect(cfg.DatabaseURL(), 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// File storage: avatars go to local disk by default, or to Cloudflare R2
	// in deployments that configure it.
	var uploader storage.FileUploader
	uploadDir := ""
	switch cfg.StorageDriver {
	case config.StorageDriverR2:
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
	default:
		uploadDir = cfg.UploadDir
		uploader, err = storage.NewLocalDiskUploader(storage.LocalDiskUploaderConfig{
			BaseDir:        cfg.UploadDir,
			PublicBasePath: "/uploads",
		})
	}
	if err != nil {
		logger.Error("failed to initialize file storage", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("file storage initialized")

	hub := live.NewHub(logger)
	go hub.Run()

	renderer, err := views.NewRenderer()
	if err != nil {
		logger.Error("failed to initialize view renderer", slog.Any("error", err))
		os.Exit(1)
	}

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	regRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo)
	registrationService := services.NewRegistrationService(dbConn, regRepo, playerRepo, uploader, hub, logger)
	dashboardService := services.NewDashboardService(regRepo, uploader)
	logger.Info("services initialized")

	sessions := middleware.NewSessionManager(cfg.SessionSecret, cfg.Production)

	router := chi.NewRouter()
	api.SetupRoutes(router, sessions, api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, sessions, renderer, logger),
		Views:        handlers.NewViewHandler(renderer, logger),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Tournament:   handlers.NewTournamentHandler(),
		Live:         handlers.NewLiveHandler(hub, logger),
	}, uploadDir, logger)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
