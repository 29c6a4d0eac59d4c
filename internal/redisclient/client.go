package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/go-redis/redis/v8"
)

// Client is a read cache in front of the catalog and settings store. It
// is never authoritative: availability is decided by the database CAS,
// so every mutation path simply invalidates the affected keys.
type Client struct {
	rdb *redis.Client
}

const (
	listingPageTTL = 30 * time.Second
	settingTTL     = 5 * time.Minute
)

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

func listingPageKey(cityID, areaID int64, variant, class string) string {
	return fmt.Sprintf("listings:%d:%d:%s:%s", cityID, areaID, variant, class)
}

// GetListingPage returns a cached browse page, or (nil, false) on a miss.
func (c *Client) GetListingPage(ctx context.Context, cityID, areaID int64, variant, class string) ([]models.Listing, bool, error) {
	raw, err := c.rdb.Get(ctx, listingPageKey(cityID, areaID, variant, class)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var listings []models.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached listings: %w", err)
	}
	return listings, true, nil
}

// SetListingPage caches a browse page with a short TTL.
func (c *Client) SetListingPage(ctx context.Context, cityID, areaID int64, variant, class string, listings []models.Listing) error {
	raw, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("failed to encode listings: %w", err)
	}
	return c.rdb.Set(ctx, listingPageKey(cityID, areaID, variant, class), raw, listingPageTTL).Err()
}

// InvalidateListingPage drops the cached page a listing belongs to.
func (c *Client) InvalidateListingPage(ctx context.Context, cityID, areaID int64, variant, class string) error {
	return c.rdb.Del(ctx, listingPageKey(cityID, areaID, variant, class)).Err()
}

// GetSetting returns a cached setting value, or ("", false) on a miss.
func (c *Client) GetSetting(ctx context.Context, key string) (string, bool, error) {
	value, err := c.rdb.Get(ctx, "settings:"+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting caches a setting value.
func (c *Client) SetSetting(ctx context.Context, key, value string) error {
	return c.rdb.Set(ctx, "settings:"+key, value, settingTTL).Err()
}

// InvalidateSetting drops a cached setting after a write.
func (c *Client) InvalidateSetting(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, "settings:"+key).Err()
}
