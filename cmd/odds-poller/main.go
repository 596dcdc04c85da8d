package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Stattrackrr/stattrackr/internal/cache"
	"github.com/Stattrackrr/stattrackr/internal/config"
	"github.com/Stattrackrr/stattrackr/internal/poller"
	"github.com/Stattrackrr/stattrackr/internal/providers/oddsboard"
	"github.com/Stattrackrr/stattrackr/internal/publisher"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Info().Msg("starting odds poller")

	// Load configuration from environment
	redisURL := getEnv("REDIS_URL", "redis://localhost:6379")
	oddsAPIURL := getEnv("ODDS_API_URL", "http://localhost:8090")
	watchPath := getEnv("WATCH_CONFIG_PATH", "config/watch.yaml")
	intervalSeconds := getEnvInt("POLL_INTERVAL_SECONDS", 60)

	// Load the watch list
	watch, err := config.Load(watchPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", watchPath).Msg("failed to load watch config")
	}
	log.Info().Int("targets", watch.TargetCount()).Str("path", watchPath).Msg("watch config loaded")

	// Initialize Redis client
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse Redis URL")
	}

	redisClient := redis.NewClient(opts)
	defer redisClient.Close()

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	log.Info().Msg("connected to Redis")

	// Initialize components
	oddsClient := oddsboard.New(oddsAPIURL)
	store := cache.New(redisClient)
	streamPublisher := publisher.NewStreamPublisher(redisClient)

	boardPoller := poller.New(
		oddsClient,
		store,
		streamPublisher,
		watch,
		time.Duration(intervalSeconds)*time.Second,
		clockwork.NewRealClock(),
	)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")
		cancel()
	}()

	// Poll until cancelled
	boardPoller.Run(ctx)

	log.Info().Msg("odds poller stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intValue int
		fmt.Sscanf(value, "%d", &intValue)
		return intValue
	}
	return defaultValue
}
