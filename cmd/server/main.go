package main

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"instaclone/internal/config"
	"instaclone/internal/server"
	"instaclone/pkg/database"
	"instaclone/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	client, err := database.Connect(cfg.MongoURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("failed to disconnect from database: %v", err)
		}
	}()

	db := database.Database(client, cfg.DBName)

	mediaStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	// Redis is optional: without it the login rate limiter always admits.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	}

	srv := server.NewServer(cfg, db, mediaStorage, redisClient)

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
