package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/liamwears/vibeflix/internal/models"
)

const defaultTTL = 10 * time.Minute

const keyPrefix = "discover:"

// Cache stores catalog discovery results keyed by the resolved query
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func buildKey(q models.DiscoveryQuery) string {
	return fmt.Sprintf("%sg=%s:p=%s:r=%s",
		keyPrefix,
		strings.Join(q.GenreIDs, ","),
		strings.Join(q.ProviderIDs, "|"),
		q.Region,
	)
}

// Get discovery results from cache. A miss returns ok=false and no error.
func (c *Cache) Get(ctx context.Context, q models.DiscoveryQuery) ([]models.Movie, bool, error) {
	key := buildKey(q)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get discovery results from cache: %w", err)
	}

	var movies []models.Movie
	if err := json.Unmarshal([]byte(val), &movies); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal discovery results %s: %w", key, err)
	}
	if movies == nil {
		movies = []models.Movie{}
	}

	return movies, true, nil
}

// Set stores discovery results in cache
func (c *Cache) Set(ctx context.Context, q models.DiscoveryQuery, movies []models.Movie) error {
	key := buildKey(q)
	if movies == nil {
		movies = []models.Movie{}
	}
	val, err := json.Marshal(movies)
	if err != nil {
		return fmt.Errorf("failed to marshal discovery results: %w", err)
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set discovery results in cache: %w", err)
	}

	return nil
}

// Health pings the cache server
func (c *Cache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
