package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	CORS        CORSConfig
	MarketData  MarketDataConfig
	Leaderboard LeaderboardConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketDataConfig holds tunables for the quote cache, the fallback
// resolver, and the batched fetch scheduler. TTLs are differentiated by data
// kind: current prices go stale quickly because they feed displayed P&L,
// historical closes are immutable facts about the past, and dividend totals
// change rarely enough that a day of staleness is immaterial.
type MarketDataConfig struct {
	ProviderBaseURL string
	ProviderTimeout time.Duration

	PriceTTL      time.Duration
	HistoricalTTL time.Duration
	DividendTTL   time.Duration
	SweepInterval time.Duration

	BatchGroupSize    int
	GroupsPerMinute   int // inter-group pacing ceiling for the scheduler
	RequestsPerSecond int // per-request ceiling inside the provider client
}

// LeaderboardConfig holds the ranking engine's tunables, including the single
// canonical tier ladder applied to totalReturnPct. Thresholds are inclusive
// lower bounds, ordered from the top tier down.
type LeaderboardConfig struct {
	PageCacheTTL time.Duration
	WarmInterval time.Duration

	TierSThreshold float64
	TierAThreshold float64
	TierBThreshold float64
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/leaderboard.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		MarketData: MarketDataConfig{
			ProviderBaseURL:   getEnv("QUOTE_PROVIDER_URL", "https://query1.finance.yahoo.com"),
			ProviderTimeout:   getEnvDuration("QUOTE_PROVIDER_TIMEOUT", 10*time.Second),
			PriceTTL:          getEnvDuration("PRICE_CACHE_TTL", 15*time.Minute),
			HistoricalTTL:     getEnvDuration("HISTORICAL_CACHE_TTL", 14*24*time.Hour),
			DividendTTL:       getEnvDuration("DIVIDEND_CACHE_TTL", 24*time.Hour),
			SweepInterval:     getEnvDuration("CACHE_SWEEP_INTERVAL", 5*time.Minute),
			BatchGroupSize:    getEnvInt("BATCH_GROUP_SIZE", 3),
			GroupsPerMinute:   getEnvInt("BATCH_GROUPS_PER_MINUTE", 50),
			RequestsPerSecond: getEnvInt("PROVIDER_REQUESTS_PER_SECOND", 5),
		},
		Leaderboard: LeaderboardConfig{
			PageCacheTTL:   getEnvDuration("LEADERBOARD_CACHE_TTL", 30*time.Second),
			WarmInterval:   getEnvDuration("LEADERBOARD_WARM_INTERVAL", 1*time.Minute),
			TierSThreshold: getEnvFloat("TIER_S_THRESHOLD", 15.0),
			TierAThreshold: getEnvFloat("TIER_A_THRESHOLD", 8.0),
			TierBThreshold: getEnvFloat("TIER_B_THRESHOLD", 0.0),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	if config.MarketData.BatchGroupSize < 1 {
		return nil, fmt.Errorf("BATCH_GROUP_SIZE must be at least 1, got %d", config.MarketData.BatchGroupSize)
	}
	if config.Leaderboard.TierSThreshold < config.Leaderboard.TierAThreshold ||
		config.Leaderboard.TierAThreshold < config.Leaderboard.TierBThreshold {
		return nil, fmt.Errorf("tier thresholds must be ordered S >= A >= B")
	}

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value.
// Unparseable values fall back to the default.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvFloat gets a float environment variable or returns a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// getEnvDuration gets a duration environment variable (Go duration syntax,
// e.g. "15m" or "24h") or returns a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
