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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/raheem101000-netizen/gamehub/config"
	"github.com/raheem101000-netizen/gamehub/db"
	"github.com/raheem101000-netizen/gamehub/handlers"
	"github.com/raheem101000-netizen/gamehub/middleware"
	"github.com/raheem101000-netizen/gamehub/realtime"
	"github.com/raheem101000-netizen/gamehub/repositories"
	api "github.com/raheem101000-netizen/gamehub/routes"
	"github.com/raheem101000-netizen/gamehub/services"
	"github.com/raheem101000-netizen/gamehub/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Image uploads are optional: without R2 credentials the endpoint
	// answers 503 and everything else still works.
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewR2Uploader(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized")
	} else {
		logger.Warn("R2 not configured, chat image uploads disabled")
	}

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	threadRepo := repositories.NewPostgresThreadRepository(dbConn)
	messageRepo := repositories.NewPostgresMessageRepository(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	sessionRepo := repositories.NewPostgresSessionRepository(dbConn)
	txRunner := repositories.NewSQLTxRunner(dbConn)

	threadProvisioner := services.NewThreadProvisioner(teamRepo, threadRepo, logger)
	progressionService := services.NewProgressionService(txRunner, tournamentRepo, teamRepo, matchRepo, threadProvisioner, logger)
	chatService := services.NewChatService(messageRepo, threadRepo, userRepo, threadProvisioner, logger)
	standingsService := services.NewStandingsService(tournamentRepo, teamRepo, matchRepo)

	auth := middleware.NewSessionAuthenticator(cfg.SessionSecret, sessionRepo)

	registry := realtime.NewRegistry(cfg.MaxConnectionsPerUser, logger)
	gateway := realtime.NewGateway(registry, auth, chatService, cfg.MaxMessageSize, logger)

	matchHandler := handlers.NewMatchHandler(progressionService, standingsService, chatService)
	uploadHandler := handlers.NewUploadHandler(uploader)

	router := chi.NewRouter()
	api.SetupRoutes(router, auth, matchHandler, uploadHandler, gateway)
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
		logger.Info("server stopped")
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
		logger.Info("server shut down gracefully")
	}
}
