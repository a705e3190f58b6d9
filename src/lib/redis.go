package lib

import (
	"log"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// GetRedisClient returns the shared client, or nil when no redis host is
// configured. Callers treat nil as "feature disabled".
func GetRedisClient(host string) *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	if host == "" {
		return nil
	}
	opt, err := redis.ParseURL(host)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}
