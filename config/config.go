package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr           string
	MongoURI           string
	MongoDatabase      string
	RedisURL           string
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	GeminiAPIKey       string
	GeminiModel        string
	TaskWorkers        int
	ChatRetention      time.Duration
	CleanupMinMessages int
	MaintenanceEvery   time.Duration
}

func Load() Config {
	return Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		MongoURI:           getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getenv("MONGO_DATABASE", "learning_platform"),
		RedisURL:           os.Getenv("REDIS_URL"),
		JWTSecret:          getenv("JWT_SECRET", "jwt-secret-change-in-production"),
		AccessTokenExpiry:  getenvDuration("JWT_ACCESS_TOKEN_EXPIRES", time.Hour),
		RefreshTokenExpiry: getenvDuration("JWT_REFRESH_TOKEN_EXPIRES", 30*24*time.Hour),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		TaskWorkers:        getenvInt("TASK_WORKERS", 4),
		ChatRetention:      getenvDuration("CHAT_RETENTION", 90*24*time.Hour),
		CleanupMinMessages: getenvInt("CLEANUP_MIN_MESSAGES", 5),
		MaintenanceEvery:   getenvDuration("MAINTENANCE_INTERVAL", 24*time.Hour),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if hours, err := strconv.Atoi(val); err == nil {
			return time.Duration(hours) * time.Hour
		}
	}
	return fallback
}
