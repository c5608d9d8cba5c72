package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Match settings
	MinStakeAmount       int
	CommissionPercentage int
	DiceTargetWins       int

	// Timers
	DisconnectGraceSeconds int
	SessionEvictSeconds    int
	DiceSettleDelayMs      int
	DiceRoundDelayMs       int

	// Chat
	ChatHistoryLimit int

	// Security
	JWTSecret        string
	TokenExpiryHours int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/katika?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Match settings
		MinStakeAmount:       getEnvInt("MIN_STAKE_AMOUNT", 0),
		CommissionPercentage: getEnvInt("COMMISSION_PERCENTAGE", 10),
		DiceTargetWins:       getEnvInt("DICE_TARGET_WINS", 3),

		// Timers
		DisconnectGraceSeconds: getEnvInt("DISCONNECT_GRACE_PERIOD_SECONDS", 60),
		SessionEvictSeconds:    getEnvInt("SESSION_EVICT_SECONDS", 60),
		DiceSettleDelayMs:      getEnvInt("DICE_SETTLE_DELAY_MS", 1500),
		DiceRoundDelayMs:       getEnvInt("DICE_ROUND_DELAY_MS", 2500),

		// Chat
		ChatHistoryLimit: getEnvInt("CHAT_HISTORY_LIMIT", 50),

		// Security
		JWTSecret:        getEnv("JWT_SECRET", "change-me-in-production"),
		TokenExpiryHours: getEnvInt("TOKEN_EXPIRY_HOURS", 24),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
