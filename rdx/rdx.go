package rdx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect builds and pings a Redis client. Redis holds the session token
// cache, the one-shot payment-success markers, and the feed nudge channel.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password, // empty if no password
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
