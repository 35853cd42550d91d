package utils

import (
	"context"
	"log"
	"time"

	"fixly/config"

	"github.com/go-redis/redis/v8"
)

// AuthCacheClient is the dedicated client for authorization caching.
var AuthCacheClient *redis.Client

// AuthCachePrefix namespaces auth-token hashes in Redis.
const AuthCachePrefix = "auth:"

// InitAuthCache initializes the Redis client for authorization caching.
func InitAuthCache() {
	AuthCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := AuthCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Auth Cache): %v", err)
	}
}

// GetAuthCacheClient returns the Redis client for authorization caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}

// RevokeToken denylists a token hash until its natural expiry.
func RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	return GetAuthCacheClient().Set(ctx, AuthCachePrefix+HashToken(token), "revoked", ttl).Err()
}

// IsTokenRevoked reports whether the token has been revoked. With no auth
// cache configured, or when it is unreachable, tokens are treated as live;
// they still carry their own expiry.
func IsTokenRevoked(ctx context.Context, token string) bool {
	if AuthCacheClient == nil {
		return false
	}
	n, err := AuthCacheClient.Exists(ctx, AuthCachePrefix+HashToken(token)).Result()
	if err != nil {
		return false
	}
	return n > 0
}
