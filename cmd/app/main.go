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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"giveaway-tracker/internal/common/config"
	"giveaway-tracker/internal/common/logger"
	"giveaway-tracker/internal/common/middleware"
	"giveaway-tracker/internal/docs"
	discordDelivery "giveaway-tracker/internal/features/tracker/delivery/discord"
	trackerHTTP "giveaway-tracker/internal/features/tracker/delivery/http"
	"giveaway-tracker/internal/features/tracker/models"
	"giveaway-tracker/internal/features/tracker/repository"
	fileRepo "giveaway-tracker/internal/features/tracker/repository/file"
	redisRepo "giveaway-tracker/internal/features/tracker/repository/redis"
	"giveaway-tracker/internal/features/tracker/service"
	"giveaway-tracker/internal/features/tracker/store"
	"giveaway-tracker/internal/metrics"
	"giveaway-tracker/internal/platform/discord"
	"giveaway-tracker/internal/platform/redis"
	"giveaway-tracker/internal/workers"
)

const serviceName = "giveaway-tracker"

// @title           Giveaway Tracker API
// @version         1.0
// @description     Admin API of the giveaway tracker bot.

// @BasePath  /api/v1

// @securityDefinitions.apikey CallerID
// @in header
// @name X-User-ID
// @description Identity of the admin caller, checked against OWNER_ID

// @tag.name config
// @tag.description Tracked channels, display target and schedule

// @tag.name data
// @tag.description Entry log, aggregates and manual scans

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(serviceName, false)
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(serviceName, cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Str("storage", cfg.Storage.Backend).Msg("Starting giveaway tracker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docStore, closeStore, err := openDocumentStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open document store")
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	var recorder metrics.Recorder = metrics.Noop()
	if cfg.Metrics.Enabled {
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	entries := store.NewEntryStore(docStore, recorder)
	if err := entries.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to load tracked data")
	}
	configs := store.NewConfigStore(docStore, models.DefaultTrackingConfig(cfg.Tracker.DefaultUpdateInterval), recorder)
	if err := configs.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to load tracking config")
	}

	session, err := discord.NewSession(cfg.Discord.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create Discord session")
	}
	chat := discord.NewClient(session)

	trackerSvc := service.NewTrackerService(
		entries,
		configs,
		service.NewIngestor(entries, chat, cfg.Tracker.ScanHistoryLimit, recorder),
		service.NewDisplay(configs, chat),
		service.NewCorrelator(entries, cfg.Tracker.PendingImportTTL, recorder, nil),
		chat,
		recorder,
		service.Options{OwnerID: cfg.Discord.OwnerID, LeaderboardSize: cfg.Tracker.LeaderboardSize},
	)

	discordDelivery.NewHandler(trackerSvc, session).Register(session)
	if err := session.Open(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Discord")
	}
	defer session.Close()
	logger.Info().Msg("Discord session opened")

	scheduler, err := workers.NewScanScheduler(trackerSvc)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create scan scheduler")
	}
	trackerSvc.OnIntervalChange(func(minutes int) {
		_ = scheduler.Reschedule(minutes)
	})
	if err := scheduler.Start(ctx, configs.Get().UpdateIntervalMinutes); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scan scheduler")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      newRouter(cfg, trackerSvc, registry),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := scheduler.Stop(); err != nil {
		logger.Error().Err(err).Msg("Scan scheduler forced to stop")
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	logger.Info().Msg("Server exited")
}

func openDocumentStore(ctx context.Context, cfg *config.Config) (repository.DocumentStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.StorageFile:
		repo, err := fileRepo.NewFileDocumentStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("dir", cfg.Storage.DataDir).Msg("Using file document store")
		return repo, repo.Close, nil
	default:
		client, err := redis.CreateRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("addr", cfg.RedisAddr()).Msg("Using Redis document store")
		return redisRepo.NewRedisDocumentStore(client, cfg.Redis.KeyPrefix), func() { _ = client.Close() }, nil
	}
}

func newRouter(cfg *config.Config, trackerSvc service.TrackerService, registry *prometheus.Registry) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", middleware.UserIDHeader}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.CallerIdentity())
	trackerHTTP.NewTrackerHandler(trackerSvc).RegisterRoutes(v1)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
