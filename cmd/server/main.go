package main

import (
	"fmt"
	"log"
	"net/http"

	"carpool/internal/config"
	"carpool/internal/handlers"
	"carpool/internal/middleware"
	"carpool/internal/services"
	"carpool/pkg/logger"
	"carpool/pkg/push"
	"carpool/pkg/realtime"
	"carpool/pkg/store"
	"carpool/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	kv, err := buildStore(cfg)
	if err != nil {
		appLogger.Fatalf("Failed to initialize storage backend %q: %v", cfg.Storage.Backend, err)
	}

	notifier := buildNotifier(cfg, appLogger)

	hub := realtime.NewHub()
	go hub.Run()

	ledger := services.NewLedgerService(kv, appLogger, cfg.Storage, cfg.Booking)
	catalog := services.NewCatalogService(kv, ledger, notifier, hub, appLogger, cfg.Storage, cfg.Booking)
	history := services.NewHistoryService(catalog, ledger, appLogger)
	identity := services.NewIdentityService()

	rideHandler := handlers.NewRideHandler(catalog, identity, hub)
	historyHandler := handlers.NewHistoryHandler(history, identity)
	authHandler := handlers.NewAuthHandler(cfg.Security)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, authHandler)
		routes.SetupRideRoutes(v1, rideHandler, cfg.Security.JWTSecret)
		routes.SetupHistoryRoutes(v1, historyHandler, cfg.Security.JWTSecret)
	}

	router.GET("/ws", middleware.AuthRequired(cfg.Security.JWTSecret), rideHandler.ServeWS)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":           "healthy",
			"version":          cfg.App.Version,
			"realtime_clients": hub.ClientCount(),
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	appLogger.Infof("Starting %s on %s (storage=%s)", cfg.App.Name, addr, cfg.Storage.Backend)
	appLogger.Fatal(http.ListenAndServe(addr, router).Error())
}

func buildStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return store.NewRedisStore(&store.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
	case "mongodb":
		return store.NewMongoStore(&store.MongoConfig{
			URI:            cfg.Database.URI,
			Database:       cfg.Database.Database,
			Collection:     cfg.Database.Collection,
			MaxPoolSize:    cfg.Database.MaxPoolSize,
			MinPoolSize:    cfg.Database.MinPoolSize,
			ConnectTimeout: cfg.Database.ConnectTimeout,
			SocketTimeout:  cfg.Database.SocketTimeout,
		})
	default:
		return store.NewMemoryStore(), nil
	}
}

func buildNotifier(cfg *config.Config, appLogger *logger.Logger) services.Notifier {
	var providers []push.Provider

	if cfg.Push.Enabled && cfg.Push.FCMCredentialsFile != "" {
		fcm, err := push.NewFCMProvider(cfg.Push.FCMCredentialsFile, cfg.Push.Topic)
		if err != nil {
			appLogger.WithError(err).Warn("FCM provider unavailable, continuing without it")
		} else {
			providers = append(providers, fcm)
		}
	}

	if cfg.SMS.Enabled {
		sns, err := push.NewSNSProvider(cfg.SMS.AWSRegion)
		if err != nil {
			appLogger.WithError(err).Warn("SNS provider unavailable, continuing without it")
		} else {
			providers = append(providers, sns)
		}
	}

	if len(providers) == 0 {
		return services.NopNotifier{}
	}
	return services.NewNotificationService(appLogger, providers...)
}
