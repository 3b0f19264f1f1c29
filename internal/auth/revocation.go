package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens the revocation store connection, retrying a few
// times so the API survives redis coming up slightly later.
func ConnectRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	const maxRetries = 5
	const retryDelay = 5 * time.Second

	var client *redis.Client
	var err error
	for i := 0; i < maxRetries; i++ {
		client = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		})

		if _, err = client.Ping(ctx).Result(); err == nil {
			return client, nil
		}
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", maxRetries, err)
}

// RevocationList is a redis-backed denylist of revoked token IDs.
// Entries expire together with the token they belong to, so the list
// never needs cleanup.
type RevocationList struct {
	client *redis.Client
}

func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

func key(jti string) string {
	return "revoked:" + jti
}

// Revoke marks a token id as revoked until its natural expiry.
func (r *RevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired, nothing to deny.
		return nil
	}
	return r.client.Set(ctx, key(jti), "1", ttl).Err()
}

// IsRevoked reports whether a token id has been revoked.
func (r *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
