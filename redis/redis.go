package redis

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

// Init connects to Redis. The rating cache is optional: when REDIS_ADDR is
// unset the Client stays nil and callers skip caching.
func Init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, rating cache disabled")
		return
	}

	Client = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	if _, err := Client.Ping(Ctx).Result(); err != nil {
		log.Printf("Failed to connect to Redis, rating cache disabled: %v", err)
		Client = nil
		return
	}
	log.Println("✅ Connected to Redis")
}
