package views

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Key layout for rendered views. The listing key covers the aggregate
// document list; room keys cover one document's rendered view each.
const (
	listingKey    = "view:rooms:index"
	roomKeyPrefix = "view:room:"
)

// Invalidator signals that cached views derived from room state are stale
type Invalidator interface {
	// InvalidateRoom marks a single room's rendered view stale
	InvalidateRoom(ctx context.Context, roomID string) error
	// InvalidateListing marks the aggregate document listing stale
	InvalidateListing(ctx context.Context) error
}

// RedisInvalidator deletes rendered-view keys from Redis
type RedisInvalidator struct {
	client *redis.Client
}

// NewRedisInvalidator creates an invalidator from a Redis URL
func NewRedisInvalidator(redisURL string) (*RedisInvalidator, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisInvalidator{client: client}, nil
}

// NewRedisInvalidatorFromClient wraps an existing Redis client
func NewRedisInvalidatorFromClient(client *redis.Client) *RedisInvalidator {
	return &RedisInvalidator{client: client}
}

// InvalidateRoom removes a room's rendered view key
func (i *RedisInvalidator) InvalidateRoom(ctx context.Context, roomID string) error {
	if err := i.client.Del(ctx, roomKeyPrefix+roomID).Err(); err != nil {
		return fmt.Errorf("failed to invalidate room view %s: %w", roomID, err)
	}
	return nil
}

// InvalidateListing removes the aggregate listing view key
func (i *RedisInvalidator) InvalidateListing(ctx context.Context) error {
	if err := i.client.Del(ctx, listingKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate listing view: %w", err)
	}
	return nil
}

// Close closes the underlying Redis connection
func (i *RedisInvalidator) Close() error {
	return i.client.Close()
}

// Client exposes the underlying Redis client for health checks
func (i *RedisInvalidator) Client() *redis.Client {
	return i.client
}

// RoomKey returns the Redis key holding a room's rendered view
func RoomKey(roomID string) string {
	return roomKeyPrefix + roomID
}

// ListingKey returns the Redis key holding the aggregate listing view
func ListingKey() string {
	return listingKey
}

// Nop is an Invalidator for deployments without an external view layer
type Nop struct{}

func (Nop) InvalidateRoom(ctx context.Context, roomID string) error { return nil }
func (Nop) InvalidateListing(ctx context.Context) error             { return nil }
