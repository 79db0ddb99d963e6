package utils

import (
	"context"
	"log"
	"time"

	"github.com/tech282/ecosystem-platform-api/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// DedupeClient is the dedicated client for payment-event deduplication.
	DedupeClient *redis.Client
)

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitDedupeCache initializes the Redis client used to deduplicate webhook deliveries.
func InitDedupeCache() {
	DedupeClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDedupeDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := DedupeClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Dedupe): %v", err)
	}
}

// GetDedupeClient returns the Redis client for webhook deduplication.
func GetDedupeClient() *redis.Client {
	if DedupeClient == nil {
		InitDedupeCache()
	}
	return DedupeClient
}
