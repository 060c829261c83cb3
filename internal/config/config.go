package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	MongoURL string
	DBName   string

	RedisURL string

	JWTSecret string
	TokenTTL  time.Duration

	CloudinaryUploadFolder string

	RateLimitLogin time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		MongoURL: os.Getenv("MONGO_URL"),
		DBName:   getEnv("DB_NAME", "instaclone"),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "instaclone"),
	}

	ttlHours := 24 * 30
	if ttlStr := os.Getenv("JWT_TTL_HOURS"); ttlStr != "" {
		hours, err := strconv.Atoi(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL_HOURS: %w", err)
		}
		ttlHours = hours
	}
	cfg.TokenTTL = time.Duration(ttlHours) * time.Hour

	var err error
	cfg.RateLimitLogin, err = time.ParseDuration(getEnv("RATE_LIMIT_LOGIN", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_LOGIN: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
