package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client wraps Redis for the two concerns this service caches: product
// stock snapshots for dashboard reads and a fast-path dedup set for the
// batch import reconciler. Postgres stays the source of truth; every
// Redis miss or failure falls back to the store.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetProductStock caches a product's stock quantity
func (c *Client) SetProductStock(ctx context.Context, productID int64, quantity int) error {
	key := fmt.Sprintf("stock:product:%d", productID)
	return c.rdb.Set(ctx, key, quantity, 0).Err()
}

// GetProductStock reads a cached product stock quantity. The bool reports
// whether the key was present.
func (c *Client) GetProductStock(ctx context.Context, productID int64) (int, bool, error) {
	key := fmt.Sprintf("stock:product:%d", productID)
	val, err := c.rdb.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

// SetFilamentWeight caches a filament's current weight
func (c *Client) SetFilamentWeight(ctx context.Context, filamentID int64, weightG float64) error {
	key := fmt.Sprintf("stock:filament:%d", filamentID)
	return c.rdb.Set(ctx, key, weightG, 0).Err()
}

// IsExternalOrderSeen reports whether an external order id is marked as
// imported. Used as the import dedup fast path; the store check remains
// authoritative on a miss.
func (c *Client) IsExternalOrderSeen(ctx context.Context, userID int64, externalID string) (bool, error) {
	key := fmt.Sprintf("import:seen:%d:%s", userID, externalID)
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkExternalOrderSeen records an external order id after its order row was
// persisted. Ids that never produced an order row must not be marked, or a
// later import could skip them.
func (c *Client) MarkExternalOrderSeen(ctx context.Context, userID int64, externalID string, ttl time.Duration) error {
	key := fmt.Sprintf("import:seen:%d:%s", userID, externalID)
	return c.rdb.Set(ctx, key, "1", ttl).Err()
}
