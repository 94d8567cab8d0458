package rdx

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}

// GetJSON loads a cached JSON value into dest. Returns false on miss or any
// redis/unmarshal error so callers fall through to the real read.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	raw, err := Conn.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Println("rdx: stale cache entry for", key, ":", err)
		Conn.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON caches a JSON value with a TTL. Cache errors are logged, never
// surfaced.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Println("rdx: marshal error for", key, ":", err)
		return
	}
	if err := Conn.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Println("rdx: set error for", key, ":", err)
	}
}
