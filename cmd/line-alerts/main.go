package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"github.com/Stattrackrr/stattrackr/internal/alerts"
	"github.com/Stattrackrr/stattrackr/internal/cache"
	"github.com/Stattrackrr/stattrackr/internal/consumer"
	"github.com/Stattrackrr/stattrackr/internal/dedup"
	"github.com/Stattrackrr/stattrackr/internal/ratelimit"
)

func main() {
	fmt.Println("=== StatTrackr Line Alerts v0 ===")

	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	config := loadConfig()

	// Connect to Redis
	redisOpts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		fmt.Printf("❌ Failed to parse Redis URL: %v\n", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)

	// Ping Redis
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Connected to Redis")

	clock := clockwork.NewRealClock()

	// Pick the notifier: Telegram when configured, log-only otherwise
	var notifier alerts.Notifier
	var telegramNotifier *alerts.TelegramNotifier
	if config.TelegramBotToken == "" {
		fmt.Println("⚠️  WARNING: TELEGRAM_BOT_TOKEN not set - alerts will be logged but not sent")
		notifier = alerts.NewLogNotifier()
	} else {
		telegramNotifier, err = alerts.NewTelegramNotifier(config.TelegramBotToken, config.TelegramChatID, clock)
		if err != nil {
			fmt.Printf("❌ Failed to start Telegram notifier: %v\n", err)
			os.Exit(1)
		}
		notifier = telegramNotifier
	}

	// Initialize components
	store := cache.New(redisClient)
	detector := alerts.NewDetector(store, clock)
	alertFilter := alerts.NewFilter(config.MinMovePercent, config.MinLineDelta, config.MaxDataAgeSeconds)
	deduplicator := dedup.NewDeduplicator(redisClient, config.DedupTTLMinutes)
	rateLimiter := ratelimit.NewTokenBucket(redisClient, config.AlertRateLimit, clock)
	service := alerts.NewService(detector, alertFilter, deduplicator, rateLimiter, notifier)
	streamConsumer := consumer.NewStreamConsumer(redisClient, config.GroupName, config.ConsumerID, service.HandleBoard)

	fmt.Printf("✓ Line Alerts configured:\n")
	fmt.Printf("  Min Move: %.1f%%\n", config.MinMovePercent)
	fmt.Printf("  Min Line Delta: %.2f\n", config.MinLineDelta)
	fmt.Printf("  Max Data Age: %ds\n", config.MaxDataAgeSeconds)
	fmt.Printf("  Rate Limit: %d alerts/min\n", config.AlertRateLimit)
	fmt.Printf("  Dedup TTL: %d minutes\n", config.DedupTTLMinutes)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	alertCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Refill the rate limit bucket in the background
	go rateLimiter.Start(alertCtx)

	// Start consuming board updates
	errChan := make(chan error, 1)
	go func() {
		errChan <- streamConsumer.Start(alertCtx)
	}()

	fmt.Println("✓ Line Alerts started - watching board updates")

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)
		cancel()
	case err := <-errChan:
		if err != nil && err != context.Canceled {
			fmt.Printf("❌ Consumer error: %v\n", err)
			os.Exit(1)
		}
	}

	// Graceful shutdown
	fmt.Println("🛑 Shutting down gracefully...")

	if telegramNotifier != nil {
		telegramNotifier.Stop()
	}

	if err := redisClient.Close(); err != nil {
		fmt.Printf("⚠️  Error closing Redis: %v\n", err)
	}

	fmt.Println("✓ Shutdown complete")
}

// Config holds line alert service configuration
type Config struct {
	RedisURL          string
	TelegramBotToken  string
	TelegramChatID    int64
	ConsumerID        string
	GroupName         string
	MinMovePercent    float64
	MinLineDelta      float64
	MaxDataAgeSeconds int
	AlertRateLimit    int
	DedupTTLMinutes   int
}

// loadConfig loads configuration from environment variables
func loadConfig() Config {
	return Config{
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379"),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:    getEnvInt64("TELEGRAM_CHAT_ID", 0),
		ConsumerID:        getEnv("LINE_ALERTS_CONSUMER_ID", "line-alerts-1"),
		GroupName:         getEnv("LINE_ALERTS_GROUP_NAME", "line-alerts"),
		MinMovePercent:    getEnvFloat("ALERT_MIN_MOVE_PCT", 3.0),
		MinLineDelta:      getEnvFloat("ALERT_MIN_LINE_DELTA", 0.5),
		MaxDataAgeSeconds: getEnvInt("ALERT_MAX_DATA_AGE_SECONDS", 120),
		AlertRateLimit:    getEnvInt("ALERT_RATE_LIMIT", 10),
		DedupTTLMinutes:   getEnvInt("ALERT_DEDUP_TTL_MINUTES", 30),
	}
}

// Helper functions
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

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		var intValue int64
		fmt.Sscanf(value, "%d", &intValue)
		return intValue
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		fmt.Sscanf(value, "%f", &floatValue)
		return floatValue
	}
	return defaultValue
}
