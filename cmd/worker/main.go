package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/openelect/ballot-pipeline/internal/adapter"
	"github.com/openelect/ballot-pipeline/internal/aggregator"
	"github.com/openelect/ballot-pipeline/internal/cache"
	"github.com/openelect/ballot-pipeline/internal/config"
	"github.com/openelect/ballot-pipeline/internal/logger"
	"github.com/openelect/ballot-pipeline/internal/store"
	"github.com/openelect/ballot-pipeline/internal/worker"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadWorkerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "ballot-worker",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting ballot processing worker")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.Fatal("Failed to configure connection pool", zap.Error(err))
	}
	logger.Info("Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store and adapters
	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	// Connect to Redis for the results cache
	redisClient := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error(err, zap.String("message", "Failed to close Redis client"))
		}
	}()

	resultsCache := cache.NewResultsCache(cfg.Cache, redisClient, jsonAdapter)
	engine := aggregator.NewEngine(dataStore, resultsCache, clock)

	// Create the processor; this connects to NATS and ensures the stream
	processor, err := worker.NewProcessor(ctx, worker.Config{
		URL:                  cfg.NATS.URL,
		StreamName:           cfg.NATS.StreamName,
		ConsumerName:         cfg.NATS.ConsumerName,
		MaxReconnects:        cfg.NATS.MaxReconnects,
		ReconnectWait:        cfg.NATS.ReconnectWait,
		ConnectionName:       cfg.NATS.ConnectionName,
		AckWaitTimeout:       cfg.NATS.AckWait,
		MaxDeliver:           cfg.NATS.MaxDeliver,
		PoolSize:             cfg.Processor.PoolSize,
		QueueSize:            cfg.Processor.QueueSize,
		MaxPersistAttempts:   cfg.Processor.MaxPersistAttempts,
		PersistRetryInterval: cfg.Processor.PersistRetryInterval,
	}, adapter.NewNatsJetStream(), dataStore, engine, jsonAdapter)
	if err != nil {
		logger.Fatal("Failed to create ballot processor", zap.Error(err))
	}
	defer processor.Close()

	// Run the processor in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := processor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.Error(err, zap.String("component", "processor"))
		cancel()
	}

	logger.Info("Ballot processing worker stopped")
}
