package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sicko7947/foodcart"
	"github.com/sicko7947/foodcart/account"
	"github.com/sicko7947/foodcart/api"
	"github.com/sicko7947/foodcart/cart"
	"github.com/sicko7947/foodcart/catalog"
	"github.com/sicko7947/foodcart/config"
	"github.com/sicko7947/foodcart/store"
)

// newBlobStore opens the configured storage backend. Remote backends are wrapped
// with retries. The returned func releases the backend.
func newBlobStore(ctx context.Context, cfg *config.Config) (foodcart.BlobStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.DynamoDB.Region))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoDB.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
			}
		})

		var opts []store.DynamoDBOption
		if cfg.DynamoDB.TTL > 0 {
			opts = append(opts, store.WithTTL(cfg.DynamoDB.TTL))
		}
		blobs := store.NewDynamoDBStore(client, cfg.DynamoDB.Table, opts...)
		return store.NewRetryingStore(blobs, cfg.RetryConfig(), log.Logger), func() {}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}

		var opts []store.RedisOption
		if cfg.Redis.KeyPrefix != "" {
			opts = append(opts, store.WithKeyPrefix(cfg.Redis.KeyPrefix))
		}
		if cfg.Redis.Expiration > 0 {
			opts = append(opts, store.WithExpiration(cfg.Redis.Expiration))
		}
		blobs := store.NewRedisStore(client, opts...)
		return store.NewRetryingStore(blobs, cfg.RetryConfig(), log.Logger), func() { _ = client.Close() }, nil

	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Logger = log.Logger.Level(cfg.LogLevel())

	if cfg.Source != "" {
		log.Info().Str("path", cfg.Source).Msg("Configuration loaded")
	} else {
		log.Warn().Msg("No config file found, using default settings")
	}

	ctx := context.Background()
	blobs, closeStore, err := newBlobStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("Failed to open storage")
	}
	defer closeStore()

	carts := cart.NewStore(blobs,
		cart.WithLogger(log.Logger),
		cart.WithConfig(cfg.CartConfig()),
	)
	accounts := account.NewService(blobs,
		account.WithLogger(log.Logger),
		account.WithConfig(cfg.AccountConfig()),
	)

	// Rehydrate the cart once at startup; a failure leaves it empty
	if _, err := carts.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("Starting with an empty cart")
	}

	log.Info().
		Str("backend", cfg.Storage.Backend).
		Str("initial_route", string(accounts.InitialRoute(ctx))).
		Msg("Storefront initialized")

	app := fiber.New()
	api.NewHandler(carts, accounts, catalog.Default(), log.Logger).RegisterRoutes(app)

	// Start server in a goroutine
	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Starting HTTP server")
		if err := app.Listen(cfg.Server.Address); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
