package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	authconfig "cardvault/internal/auth/config"
	"cardvault/internal/di"
	recconfig "cardvault/internal/recognition/config"
	apperrors "cardvault/internal/shared/errors"
	"cardvault/internal/shared/logger"
	"cardvault/internal/shared/ratelimit"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host       string `env:"SERVER_HOST" envDefault:"localhost"`
	Port       string `env:"SERVER_PORT" envDefault:"3000"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`

	// Upper bound for JSON and form payloads; the recognition route applies
	// its own smaller cap before forwarding upstream.
	BodyLimitBytes int `env:"BODY_LIMIT_BYTES" envDefault:"52428800"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"10"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`

	// When set, rate-limiter state moves to Redis so multiple instances share
	// one admission decision.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Application configuration loaded successfully")

	container := di.NewContainer(appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	authCfg, err := authconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load auth configuration: %v", err)
	}
	recCfg, err := recconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load recognition configuration: %v", err)
	}

	// Initialize MongoDB connection
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(authCfg.MongoDBURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Errorf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	appLogger.Info("MongoDB connection established successfully")

	mongoDB := mongoClient.Database(authCfg.DatabaseName)

	if err := container.InitializeAuth(mongoDB, authCfg); err != nil {
		log.Fatalf("Failed to initialize auth module: %v", err)
	}
	if err := container.InitializeCollection(); err != nil {
		log.Fatalf("Failed to initialize collection module: %v", err)
	}
	if err := container.InitializeRecognition(recCfg); err != nil {
		log.Fatalf("Failed to initialize recognition module: %v", err)
	}
	appLogger.Info("All modules initialized successfully")

	limiter := buildLimiter(serverCfg, appLogger)

	app := fiber.New(fiber.Config{
		AppName:      "cardvault API v1.0",
		BodyLimit:    serverCfg.BodyLimitBytes,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := apperrors.HTTPStatus(err)
			if fiberErr, ok := err.(*fiber.Error); ok {
				code = fiberErr.Code
			}
			appLogger.Errorf("HTTP error: %v", err)
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	authMiddleware := container.AuthModule.GetMiddleware()

	app.Use(recover.New())
	app.Use(ratelimit.Middleware(limiter, appLogger))
	app.Use(authMiddleware.CORS(serverCfg.CORSOrigin))
	app.Use(authMiddleware.RequestID())

	// Connectivity check for the frontend
	app.Get("/api/test", func(c *fiber.Ctx) error {
		checkCtx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		dbConnected := container.HealthCheck(checkCtx) == nil
		return c.JSON(fiber.Map{
			"status":      "ok",
			"apiKeySet":   container.RecognitionModule.APIKeySet(),
			"dbConnected": dbConnected,
		})
	})

	protect := authMiddleware.Protect()
	container.AuthModule.RegisterRoutes(app.Group("/api/auth"))
	container.CollectionModule.RegisterRoutes(app.Group("/api/collection"), protect)
	container.RecognitionModule.RegisterRoutes(app.Group("/api"), protect)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	})

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			log.Fatalf("Server startup failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
}

// buildLimiter selects the rate-limiter backend: Redis when configured, process
// memory otherwise.
func buildLimiter(cfg *ServerConfig, appLogger logger.Logger) ratelimit.Limiter {
	if cfg.RedisAddr == "" {
		appLogger.Info("Rate limiter using in-memory state (single instance)")
		return ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		appLogger.Warnf("Redis unreachable (%v), falling back to in-memory rate limiting", err)
		return ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	appLogger.Infof("Rate limiter using Redis at %s", cfg.RedisAddr)
	return ratelimit.NewRedisLimiter(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow)
}
