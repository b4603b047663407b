package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisOptions struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisService caches avatar bytes for the public avatar endpoint. When no
// Redis is reachable the service degrades to a no-op and every read misses.
type RedisService struct {
	client *redis.Client
}

func NewRedisService(opts RedisOptions) *RedisService {
	if opts.URL != "" {
		if parsed, err := redis.ParseURL(opts.URL); err == nil {
			client := redis.NewClient(parsed)
			if err := client.Ping(context.Background()).Err(); err == nil {
				return &RedisService{client: client}
			}
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		// Redis disabled; the service keeps working without the cache.
		return &RedisService{client: nil}
	}

	return &RedisService{client: client}
}

func (r *RedisService) SetAvatar(ctx context.Context, userID string, data []byte, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	return r.client.Set(ctx, "avatar:"+userID, data, ttl).Err()
}

func (r *RedisService) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	if r.client == nil {
		return nil, redis.Nil
	}
	return r.client.Get(ctx, "avatar:"+userID).Bytes()
}

func (r *RedisService) DeleteAvatar(ctx context.Context, userID string) error {
	if r.client == nil {
		return nil
	}
	return r.client.Del(ctx, "avatar:"+userID).Err()
}
