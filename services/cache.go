package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"voyago/config"
)

// Optional provider-response cache. A nil client disables caching entirely;
// every lookup then misses and providers are hit directly.

var redisClient *redis.Client

var cacheCtx = context.Background()

func InitCache(cfg *config.Config) {
	if cfg.RedisURL == "" {
		log.Println("⚠️  REDIS_URL not set — provider response cache disabled")
		return
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("⚠️  Invalid REDIS_URL: %v — cache disabled", err)
		return
	}

	client := redis.NewClient(opts)
	if err := client.Ping(cacheCtx).Err(); err != nil {
		log.Printf("⚠️  Redis unreachable: %v — cache disabled", err)
		return
	}

	redisClient = client
	log.Println("✅ Redis cache connected")
}

func GetRedis() *redis.Client {
	return redisClient
}

// cacheGet unmarshals a cached value into dest, reporting whether it was found.
func cacheGet(key string, dest interface{}) bool {
	if redisClient == nil {
		return false
	}
	raw, err := redisClient.Get(cacheCtx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false
	}
	return true
}

func cacheSet(key string, value interface{}, ttl time.Duration) {
	if redisClient == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := redisClient.Set(cacheCtx, key, raw, ttl).Err(); err != nil {
		log.Printf("⚠️  Cache write failed for %s: %v", key, err)
	}
}
