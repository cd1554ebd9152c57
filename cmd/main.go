/**
 * @description
 * This is the main entry point for the member-portal. It is responsible for
 * initializing all components of the service: configuration, database
 * connection, the message broker producer, the optional Redis cache, the data
 * repository, the core application service, the cron scheduler for the loan
 * deadline sweep, and the HTTP server. It wires everything together and starts
 * the service.
 *
 * @dependencies
 * - log/slog, net/http: Standard Go libraries for logging and HTTP serving.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/joho/godotenv: Optional .env loading for local development.
 * - internal/api, internal/app, internal/config, internal/jobs, internal/store:
 *   Internal packages for the service.
 * - pkg/rabbitmq: RabbitMQ producer for notification events.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/myhainan/member-portal/internal/api"
	"github.com/myhainan/member-portal/internal/app"
	"github.com/myhainan/member-portal/internal/config"
	"github.com/myhainan/member-portal/internal/jobs"
	"github.com/myhainan/member-portal/internal/store"
	"github.com/myhainan/member-portal/pkg/rabbitmq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load .env for local development; absence is fine in deployed environments.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("starting member-portal", "port", cfg.ServerPort)

	// Establish a connection pool to the PostgreSQL database.
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = 50
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	// Disable prepared statement caching to prevent conflicts
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	// Initialize the RabbitMQ producer for notification events. The portal only
	// publishes, and runs with a no-op fallback when the broker is unavailable.
	var producer rabbitmq.Publisher
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		logger.Warn("rabbitmq url not configured; notification events disabled")
		producer = &rabbitmq.NoopPublisher{Logger: logger}
	} else if p, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL); err != nil {
		logger.Warn("rabbitmq producer unavailable; using fallback", "error", err)
		producer = &rabbitmq.NoopPublisher{Logger: logger}
	} else {
		defer p.Close()
		producer = p
		logger.Info("rabbitmq producer connected")
	}

	// Initialize the data access layer and the core application service.
	repository := store.NewPostgresRepository(dbpool)
	portalService := app.NewService(
		repository,
		producer,
		logger,
		cfg.JWTSecret,
		time.Duration(cfg.TokenTTLMinutes)*time.Minute,
	)

	// Attach the optional Redis cache for the public events listing.
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			logger.Warn("redis url parse failed; events cache disabled", "error", parseErr)
		} else {
			redisClient := redis.NewClient(redisOptions)
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
			pingErr := redisClient.Ping(pingCtx).Err()
			cancelPing()
			if pingErr != nil {
				logger.Warn("redis ping failed; events cache disabled", "error", pingErr)
				redisClient.Close()
			} else {
				defer redisClient.Close()
				portalService.SetEventCache(app.NewRedisEventCache(
					redisClient,
					cfg.RedisCachePrefix,
					time.Duration(cfg.EventCacheTTLSeconds)*time.Second,
				))
				logger.Info("redis connected; events cache enabled")
			}
		}
	}

	// Start the cron scheduler for the loan deadline sweep.
	sweepJobs := jobs.NewJobs(portalService, logger)
	scheduler := jobs.NewScheduler(sweepJobs, logger, cfg.DeadlineSweepSchedule)
	scheduler.Start()
	logger.Info("scheduler started")

	// Set up the HTTP router and start the server.
	handlers := api.NewPortalHandlers(portalService)
	router := api.PortalRoutes(handlers, portalService)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal to gracefully shut down.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutdown started")

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	logger.Info("scheduler stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	logger.Info("shutdown complete")
}
