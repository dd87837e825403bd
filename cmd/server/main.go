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

	"github.com/Dosada05/school-tournament/config"
	"github.com/Dosada05/school-tournament/db"
	"github.com/Dosada05/school-tournament/handlers"
	"github.com/Dosada05/school-tournament/metrics"
	"github.com/Dosada05/school-tournament/realtime"
	"github.com/Dosada05/school-tournament/repositories"
	api "github.com/Dosada05/school-tournament/routes"
	"github.com/Dosada05/school-tournament/services"
	"github.com/Dosada05/school-tournament/storage"
)

// @title School Tournament Scheduler API
// @version 1.0
// @description Group-stage scheduling and elimination brackets for multi-modality school tournaments.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("log_level", cfg.LogLevel.String()))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
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

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(migrateCtx, dbConn)
	cancelMigrate()
	if err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Снимки расписаний в Cloudflare R2 (опционально)
	var snapshots *services.SnapshotPublisher
	if cfg.R2.Enabled() {
		uploader, err := storage.NewR2Uploader(context.Background(), cfg.R2)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		snapshots = services.NewSnapshotPublisher(uploader, logger)
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2.BucketName))
	} else {
		logger.Info("R2 not configured, schedule snapshots disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := realtime.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	metricsService := metrics.NewService(nil)

	// Инициализация репозиториев
	transactor := repositories.NewPostgresTransactor(dbConn, logger)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	venueRepo := repositories.NewPostgresVenueRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	logger.Info("Repositories initialized")

	scheduler := services.NewSchedulerService(services.Dependencies{
		Transactor:  transactor,
		Tournaments: tournamentRepo,
		Groups:      groupRepo,
		Venues:      venueRepo,
		Matches:     matchRepo,
		Classifier:  services.NewPointsClassifier(),
		Metrics:     metricsService,
		Broadcaster: wsHub,
		Snapshots:   snapshots,
		Logger:      logger,
	}, services.Settings{
		BlockSize:          cfg.GenderBlockSize,
		MaxSlots:           cfg.MaxSlots,
		SlotDuration:       cfg.SlotDuration,
		EliminationSpacing: cfg.EliminationSpacing,
		StartGenders:       cfg.StartGenders,
	})
	logger.Info("Services initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Dependencies{
		Schedule:       handlers.NewScheduleHandler(scheduler),
		Bracket:        handlers.NewBracketHandler(scheduler),
		Match:          handlers.NewMatchHandler(scheduler),
		WebSocket:      handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins),
		Health:         handlers.NewHealthHandler(dbConn),
		Metrics:        metrics.NewHandler(nil),
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout: 30 * time.Second,
	})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
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

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
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
