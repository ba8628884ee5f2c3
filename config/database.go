package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens and pings a MongoDB connection. The returned database
// handle is passed into the service layer; nothing here is a package global.
func ConnectMongo(cfg Config) (*mongo.Database, error) {
	log.Println("Attempting to connect to MongoDB...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Println("Successfully connected to MongoDB")
	return client.Database(cfg.MongoDatabase), nil
}

// ConnectRedis returns a Redis client for rate limiting, or nil when no
// REDIS_URL is configured. Callers must tolerate a nil client.
func ConnectRedis(cfg Config) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("Invalid REDIS_URL, rate limiting falls back to in-memory: %v", err)
		return nil
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis not reachable, rate limiting falls back to in-memory: %v", err)
		return nil
	}

	log.Println("Successfully connected to Redis")
	return client
}
